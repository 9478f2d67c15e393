// Package agreement classifies a single message on an ordinal
// agreement scale and decides whether the exchange should continue.
// The classifier is stateless; every call depends only on the message.
package agreement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/parleyhq/parley/internal/lexicon"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/textutil"
)

// Classifier maps one message to an agreement level using ordered
// threshold rules over lexicon hit counts. The first matching rule
// wins, so signal priority is encoded in rule order, not weights.
type Classifier struct {
	disagreement    []string
	reservation     []string
	continuation    []string
	agreement       []string
	strongAgreement []string
	stop            []string
	questions       []*regexp.Regexp
}

// NewClassifier builds a classifier over the shared lexicon tables
func NewClassifier() *Classifier {
	return &Classifier{
		disagreement:    lexicon.Disagreement,
		reservation:     lexicon.Reservation,
		continuation:    lexicon.Continuation,
		agreement:       lexicon.AgreementPhrases,
		strongAgreement: lexicon.StrongAgreementPhrases,
		stop:            lexicon.StopPhrases,
		questions:       lexicon.QuestionPatterns,
	}
}

// Analyze classifies a message. Questions count as engagement, never as
// agreement: a message that keeps interrogating keeps the debate open
// no matter how polite its phrasing is.
func (c *Classifier) Analyze(message string) model.AgreementAnalysis {
	lower := strings.ToLower(message)

	signals := model.SignalCounts{
		Disagreement:    textutil.CountPhrases(lower, c.disagreement),
		Reservation:     textutil.CountPhrases(lower, c.reservation),
		Continuation:    textutil.CountPhrases(lower, c.continuation),
		Questions:       countPatterns(lower, c.questions),
		Agreement:       textutil.CountPhrases(lower, c.agreement),
		StrongAgreement: textutil.CountPhrases(lower, c.strongAgreement),
		Stop:            textutil.CountPhrases(lower, c.stop),
	}

	sentences := 0
	for _, s := range strings.Split(message, ".") {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	level, confidence, shouldContinue := classify(signals)

	return model.AgreementAnalysis{
		Level:          level,
		Confidence:     confidence,
		ContinueDebate: shouldContinue,
		Explanation:    explain(level, signals),
		Signals:        signals,
		Stats: model.MessageStats{
			Sentences: sentences,
			Words:     textutil.WordCount(message),
		},
	}
}

func countPatterns(lower string, patterns []*regexp.Regexp) int {
	count := 0
	for _, p := range patterns {
		count += len(p.FindAllStringIndex(lower, -1))
	}
	return count
}

// classify applies the priority ladder. Order matters: stop signals
// beat everything, disagreement beats agreement, and any open question
// keeps the debate running.
func classify(s model.SignalCounts) (model.AgreementLevel, float64, bool) {
	// Explicit stop or doubled-up strong agreement ends it outright
	if s.Stop > 0 || s.StrongAgreement >= 2 {
		return model.StrongAgreement, 0.95, false
	}

	if s.Disagreement >= 3 || (s.Disagreement >= 1 && s.Reservation >= 3) {
		return model.StrongDisagreement, 0.9, true
	}

	// Sustained reservations or active questioning means continued debate
	if (s.Reservation >= 2 && s.Continuation >= 1) || s.Questions >= 3 {
		return model.Disagreement, 0.85, true
	}

	if s.Agreement >= 1 && s.Reservation >= 1 {
		return model.MixedResponse, 0.7, true
	}

	if s.Agreement >= 2 && s.Reservation <= 1 && s.Questions <= 2 {
		return model.LeaningAgreement, 0.75, true
	}

	if s.Agreement >= 3 || s.StrongAgreement >= 1 {
		return model.StrongAgreement, 0.9, false
	}

	if s.Agreement >= 1 && s.Reservation == 0 && s.Continuation == 0 {
		return model.Agreement, 0.8, false
	}

	// Lingering skepticism defaults to continuing
	if s.Questions >= 6 || s.Reservation > 0 || s.Continuation > 0 {
		return model.Disagreement, 0.6, true
	}

	return model.MixedResponse, 0.5, true
}

func explain(level model.AgreementLevel, s model.SignalCounts) string {
	switch level {
	case model.StrongAgreement:
		return fmt.Sprintf("speaker shows strong agreement with %d strong agreement signals and %d stop signals",
			s.StrongAgreement, s.Stop)
	case model.Agreement:
		return fmt.Sprintf("speaker agrees with %d agreement signals and minimal reservations", s.Agreement)
	case model.LeaningAgreement:
		return fmt.Sprintf("speaker is leaning toward agreement (%d agreement signals) but still has some concerns",
			s.Agreement)
	case model.MixedResponse:
		return fmt.Sprintf("speaker has mixed feelings with %d agreement and %d reservation signals",
			s.Agreement, s.Reservation)
	case model.Disagreement:
		return fmt.Sprintf("speaker wants to continue debating: %d reservations, %d questions, %d continuation signals",
			s.Reservation, s.Questions, s.Continuation)
	case model.StrongDisagreement:
		return fmt.Sprintf("speaker strongly disagrees with %d disagreement and %d reservation signals",
			s.Disagreement, s.Reservation)
	}
	return "unable to determine agreement level clearly"
}

// ShouldEnd reports whether the message warrants ending the exchange,
// with a human-readable reason.
func (c *Classifier) ShouldEnd(message string) (bool, string) {
	analysis := c.Analyze(message)

	if !analysis.ContinueDebate {
		if analysis.Level == model.StrongAgreement || analysis.Level == model.Agreement {
			return true, "speaker agreed - " + analysis.Explanation
		}
		return true, "conversation concluded - " + analysis.Explanation
	}
	return false, "debate continues - " + analysis.Explanation
}
