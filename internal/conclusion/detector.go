// Package conclusion detects when an exchange has reached a natural
// endpoint or has collapsed into circular repetition.
package conclusion

import (
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/lexicon"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/textutil"
)

type observedMessage struct {
	speaker string
	message string
	round   int
	length  int
}

type agreementEvent struct {
	speaker string
	phrase  string
	round   int
}

// Detector accumulates rolling conversation state and decides whether
// the debate should conclude. Feed every message through Observe, then
// call ShouldConclude as often as needed; the decision is derived, not
// cached.
type Detector struct {
	history    []observedMessage
	positions  map[string][]int
	coverage   map[string]bool
	agreements []agreementEvent
	repetition map[string]int
}

// New creates an empty detector
func New() *Detector {
	return &Detector{
		positions:  make(map[string][]int),
		coverage:   make(map[string]bool),
		repetition: make(map[string]int),
	}
}

// Observe folds one message into the rolling state
func (d *Detector) Observe(message, speaker string, round int) {
	d.history = append(d.history, observedMessage{
		speaker: speaker,
		message: message,
		round:   round,
		length:  textutil.WordCount(message),
	})

	lower := strings.ToLower(message)

	d.trackPosition(lower, speaker)
	d.trackCoverage(lower)
	d.trackAgreements(lower, speaker)
	d.trackRepetition(lower, speaker)
}

// trackPosition scores how committed the message sounds and appends it
// to the speaker's position history.
func (d *Detector) trackPosition(lower, speaker string) {
	score := 0
	for _, sw := range lexicon.StanceWeights {
		if strings.Contains(lower, sw.Phrase) {
			score += sw.Weight
		}
	}
	d.positions[speaker] = append(d.positions[speaker], score)
}

func (d *Detector) trackCoverage(lower string) {
	for tag, keywords := range lexicon.CoverageTags {
		if textutil.ContainsAny(lower, keywords) {
			d.coverage[tag] = true
		}
	}
}

func (d *Detector) trackAgreements(lower, speaker string) {
	for _, phrase := range lexicon.SoftAgreement {
		if strings.Contains(lower, phrase) {
			d.agreements = append(d.agreements, agreementEvent{
				speaker: speaker,
				phrase:  phrase,
				round:   len(d.history),
			})
		}
	}
}

// trackRepetition counts repeated three-word fragments per speaker. A
// fragment seen three or more times marks a recycled argument.
func (d *Detector) trackRepetition(lower, speaker string) {
	for _, fragment := range lexicon.TriGram.FindAllString(lower, -1) {
		d.repetition[speaker+":"+fragment]++
	}
}

// ShouldConclude derives the current stage and the conclusion decision
func (d *Detector) ShouldConclude() model.ConclusionAnalysis {
	// Too little signal to judge anything yet
	if len(d.history) < 4 {
		return model.ConclusionAnalysis{
			Stage:           model.InitialExploration,
			ShouldConclude:  false,
			Confidence:      0.0,
			Reason:          "debate still in early stages",
			SuggestedAction: "Continue exploration of topic",
		}
	}

	indicators := d.indicators()
	stage := d.stage(indicators)
	shouldConclude, confidence, reason, action := decide(stage, indicators)

	return model.ConclusionAnalysis{
		Stage:           stage,
		ShouldConclude:  shouldConclude,
		Confidence:      confidence,
		Reason:          reason,
		SuggestedAction: action,
		Indicators:      indicators,
	}
}

func (d *Detector) indicators() model.ConclusionIndicators {
	recent := d.history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	var parts []string
	for _, msg := range recent {
		parts = append(parts, strings.ToLower(msg.message))
	}
	recentText := strings.Join(parts, " ")

	repeated := 0
	for _, count := range d.repetition {
		if count >= 3 {
			repeated++
		}
	}

	return model.ConclusionIndicators{
		ConclusionPhrases:    countPresent(recentText, lexicon.ConclusionPhrases),
		AgreementCount:       len(d.agreements),
		ExhaustionPhrases:    countPresent(recentText, lexicon.Exhaustion),
		StagnationPhrases:    countPresent(recentText, lexicon.Stagnation),
		RepetitionCount:      repeated,
		MessageLengthDecline: d.lengthDecline(),
		TopicSaturation:      len(d.coverage),
		RoundsProcessed:      len(d.history) / 2,
		PositionConvergence:  d.positionConvergence(),
		CircularScore:        d.circularScore(),
	}
}

// countPresent counts distinct phrases present, not total occurrences
func countPresent(text string, phrases []string) int {
	count := 0
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			count++
		}
	}
	return count
}

// stage determines the debate phase. Circular repetition is checked
// before natural conclusion so a stuck debate is never mistaken for a
// converging one.
func (d *Detector) stage(ind model.ConclusionIndicators) model.DebateStage {
	if ind.CircularScore >= 5 || ind.RepetitionCount >= 4 {
		return model.CircularRepetition
	}

	if ind.ConclusionPhrases >= 2 || ind.AgreementCount >= 3 || ind.ExhaustionPhrases >= 3 {
		return model.NaturalConclusion
	}

	switch {
	case ind.RoundsProcessed <= 3:
		return model.InitialExploration
	case ind.RoundsProcessed <= 8:
		return model.ActiveEngagement
	case ind.RoundsProcessed <= 15:
		return model.DeepAnalysis
	default:
		if ind.PositionConvergence >= 2 {
			return model.ConvergenceAttempt
		}
		return model.CircularRepetition
	}
}

func decide(stage model.DebateStage, ind model.ConclusionIndicators) (bool, float64, string, string) {
	switch {
	case stage == model.NaturalConclusion:
		return true, 0.9,
			fmt.Sprintf("natural conclusion detected: %d conclusion phrases, %d agreements, %d exhaustion indicators",
				ind.ConclusionPhrases, ind.AgreementCount, ind.ExhaustionPhrases),
			"Summarize key points of agreement and disagreement, then conclude the debate"

	case stage == model.CircularRepetition:
		return true, 0.8,
			fmt.Sprintf("circular debate detected: %d repeated patterns, circular score: %d, %d stagnation phrases",
				ind.RepetitionCount, ind.CircularScore, ind.StagnationPhrases),
			"Acknowledge the impasse, summarize positions, and suggest agreeing to disagree or exploring new angles"

	case stage == model.ConvergenceAttempt && ind.RoundsProcessed > 20:
		return true, 0.7,
			fmt.Sprintf("extended debate showing convergence attempts but no resolution after %d rounds",
				ind.RoundsProcessed),
			"Attempt final synthesis of positions or gracefully conclude with areas of agreement and disagreement"

	case ind.RoundsProcessed > 25:
		return true, 0.6,
			fmt.Sprintf("very long debate (%d rounds) with potential diminishing returns", ind.RoundsProcessed),
			"Consider concluding the current thread and potentially starting a new focused sub-topic"

	default:
		return false, 0.1,
			fmt.Sprintf("debate still progressing in %s stage", stage),
			"Continue current discussion path"
	}
}

// lengthDecline flags fatigue when recent messages run well short of
// the opening ones.
func (d *Detector) lengthDecline() int {
	if len(d.history) < 6 {
		return 0
	}

	early := d.history[:6]
	recent := d.history[len(d.history)-6:]

	earlySum, recentSum := 0, 0
	for _, msg := range early {
		earlySum += msg.length
	}
	for _, msg := range recent {
		recentSum += msg.length
	}

	avgEarly := float64(earlySum) / float64(len(early))
	avgRecent := float64(recentSum) / float64(len(recent))

	if avgRecent < avgEarly*0.7 {
		return 1
	}
	return 0
}

// positionConvergence counts speakers whose stance scores have settled
// near their starting point, suggesting entrenchment or agreement.
func (d *Detector) positionConvergence() int {
	score := 0
	for _, positions := range d.positions {
		if len(positions) < 4 {
			continue
		}
		recentAvg := avg(positions[len(positions)-3:])
		earlyAvg := avg(positions[:3])
		if abs(recentAvg-earlyAvg) < abs(earlyAvg)*0.5 {
			score++
		}
	}
	return score
}

func (d *Detector) circularScore() int {
	score := 0

	for _, count := range d.repetition {
		if count >= 4 {
			score++
		}
	}

	recent := d.history
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	var parts []string
	for _, msg := range recent {
		parts = append(parts, strings.ToLower(msg.message))
	}
	score += countPresent(strings.Join(parts, " "), lexicon.Stagnation)

	// Long debate that never broadened its coverage
	if len(d.history) > 10 && len(d.coverage) < 4 {
		score += 2
	}

	return score
}

func avg(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
