// Package ledger tracks claims, questions, and resolution points across
// the rounds of one conversation, and detects rehashing.
package ledger

import (
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/lexicon"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/textutil"
)

// Ledger is the per-conversation claim/question/resolution bookkeeping.
// It is not safe for concurrent use; callers serialize access per
// conversation.
type Ledger struct {
	round           int
	claims          map[string]*model.Claim
	claimOrder      []string // Insertion order, for deterministic iteration
	resolutions     map[string]*model.ResolutionPoint
	resolutionOrder []string
	questionBuckets map[string]int
	questionsAsked  map[string]int

	rehashThreshold     int
	similarityThreshold float64
	minClaimLength      int
	stagnantRounds      int
}

// New creates an empty ledger with the given analysis thresholds
func New(cfg model.AnalysisConfig) *Ledger {
	rehash := cfg.RehashThreshold
	if rehash <= 0 {
		rehash = 3
	}
	similarity := cfg.SimilarityThreshold
	if similarity <= 0 {
		similarity = 0.3
	}
	minLen := cfg.MinClaimLength
	if minLen <= 0 {
		minLen = 20
	}
	stagnant := cfg.StagnantRounds
	if stagnant <= 0 {
		stagnant = 5
	}

	return &Ledger{
		claims:              make(map[string]*model.Claim),
		resolutions:         make(map[string]*model.ResolutionPoint),
		questionBuckets:     make(map[string]int),
		questionsAsked:      make(map[string]int),
		rehashThreshold:     rehash,
		similarityThreshold: similarity,
		minClaimLength:      minLen,
		stagnantRounds:      stagnant,
	}
}

// AdvanceRound moves to the next round. Call once per turn before the
// other operations.
func (l *Ledger) AdvanceRound() {
	l.round++
}

// Round returns the current round number
func (l *Ledger) Round() int {
	return l.round
}

// ExtractClaims finds new claims in a message and returns their IDs.
// Sentences containing a question mark are tracked as questions and
// never become claims; missing a rhetorical claim is cheaper than
// double-tracking a question.
func (l *Ledger) ExtractClaims(message, speaker string) []string {
	var newClaims []string

	for _, sentence := range textutil.SplitSentences(message) {
		if sentence.IsQuestion {
			l.trackQuestion(sentence.Text, speaker)
			continue
		}

		if !isClaim(sentence.Text) || len(sentence.Text) <= l.minClaimLength {
			continue
		}

		id := textutil.HashText(sentence.Text)
		if existing, ok := l.claims[id]; ok {
			existing.LastMentionedRound = l.round
			existing.RehashCount++
			continue
		}

		l.claims[id] = &model.Claim{
			ID:                 id,
			Text:               sentence.Text,
			Speaker:            speaker,
			RoundIntroduced:    l.round,
			Status:             model.StatusProposed,
			LastMentionedRound: l.round,
		}
		l.claimOrder = append(l.claimOrder, id)
		newClaims = append(newClaims, id)
	}

	return newClaims
}

// trackQuestion records a question under its pattern bucket so later
// rounds can spot repetition even when the wording changes
func (l *Ledger) trackQuestion(question, speaker string) {
	if bucket := classifyQuestion(question); bucket != "" {
		l.questionsAsked[bucket]++
	}
}

// QuestionCounts returns how often each question bucket has been seen
func (l *Ledger) QuestionCounts() map[string]int {
	out := make(map[string]int, len(l.questionsAsked))
	for k, v := range l.questionsAsked {
		out[k] = v
	}
	return out
}

func isClaim(sentence string) bool {
	for _, lead := range lexicon.ClaimLeads {
		if lead.MatchString(sentence) {
			return true
		}
	}
	lower := strings.ToLower(sentence)
	for _, word := range lexicon.StrongAssertions {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// AnalyzeResponses checks how a message responds to the given claim IDs
// and flips their status accordingly. Unknown IDs are ignored. Settled
// claims stay settled: bringing one back up is a rehash, not a status
// change.
func (l *Ledger) AnalyzeResponses(message, speaker string, respondingTo []string) model.ResponseAnalysis {
	analysis := model.ResponseAnalysis{
		Speaker: speaker,
		Round:   l.round,
	}

	lower := strings.ToLower(message)

	agrees := containsAnyPhrase(lower, lexicon.ResponseAgreement)
	challenges := containsAnyPhrase(lower, lexicon.ResponseChallenge)

	for _, id := range respondingTo {
		claim, ok := l.claims[id]
		if !ok {
			continue
		}
		if claim.Status.Settled() {
			continue
		}
		if agrees {
			analysis.Agreements = append(analysis.Agreements, id)
			claim.Status = model.StatusSupported
		}
		if challenges {
			analysis.Challenges = append(analysis.Challenges, id)
			claim.Status = model.StatusChallenged
			claim.Challenges = append(claim.Challenges, message)
		}
	}

	for _, marker := range lexicon.EvidenceMarkers {
		if strings.Contains(lower, marker) {
			analysis.EvidenceProvided = append(analysis.EvidenceProvided, marker)
		}
	}

	return analysis
}

func containsAnyPhrase(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// DetectRehashing flags settled or over-repeated claims that the
// message brings back, and repetitive question patterns. The claim and
// question tracks are independent: a rephrased question rarely passes
// literal similarity, but its pattern bucket still catches it.
func (l *Ledger) DetectRehashing(message string) []model.RehashWarning {
	var warnings []model.RehashWarning

	lower := strings.ToLower(message)

	for _, id := range l.claimOrder {
		claim := l.claims[id]
		mentioned := strings.Contains(lower, strings.ToLower(claim.Text)) ||
			textutil.Similar(claim.Text, message, l.similarityThreshold)
		if !mentioned {
			continue
		}

		if claim.Status.Settled() {
			warnings = append(warnings, model.SettledClaimRehash{
				ClaimID:      id,
				ClaimText:    claim.Text,
				Status:       claim.Status,
				SettledRound: claim.SettledRound,
				RehashCount:  claim.RehashCount,
			})
		} else if claim.RehashCount >= l.rehashThreshold {
			warnings = append(warnings, model.ExcessiveClaimRehash{
				ClaimID:     id,
				ClaimText:   claim.Text,
				RehashCount: claim.RehashCount,
				Suggestion:  "Consider moving to a new aspect or concluding this point",
			})
		}
	}

	for _, segment := range strings.Split(message, "?") {
		question := strings.TrimSpace(segment)
		if len(question) <= 10 {
			continue
		}
		bucket := classifyQuestion(question)
		if bucket == "" {
			continue
		}
		l.questionBuckets[bucket]++
		if count := l.questionBuckets[bucket]; count >= l.rehashThreshold {
			warnings = append(warnings, model.RepetitiveQuestion{
				Pattern: bucket,
				Text:    truncate(question, 100),
				Count:   count,
				Suggestion: fmt.Sprintf("This type of question has been asked %d times. "+
					"Consider accepting previous answers or asking more specific follow-ups.", count),
			})
		}
	}

	return warnings
}

// classifyQuestion maps a question to a finite bucket: first matching
// ordered rule wins, else the first two tokens form a generic bucket.
func classifyQuestion(question string) string {
	lower := strings.ToLower(strings.TrimSpace(question))

	for _, rule := range lexicon.QuestionBuckets {
		if rule.Pattern.MatchString(lower) {
			return rule.Name
		}
	}

	words := strings.Fields(lower)
	if len(words) >= 2 {
		return words[0] + "_" + words[1]
	}
	return ""
}

// CreateResolutionPoint records a settlement and retroactively settles
// any disputed or challenged claim similar to the description.
func (l *Ledger) CreateResolutionPoint(description string, typ model.ResolutionType,
	positionA, positionB string, agreed bool, evidence []string) string {

	id := "res_" + textutil.HashText(description)

	l.resolutions[id] = &model.ResolutionPoint{
		ID:            id,
		Description:   description,
		Type:          typ,
		RoundResolved: l.round,
		AgreedByBoth:  agreed,
		PositionA:     positionA,
		PositionB:     positionB,
		EvidenceBasis: evidence,
	}
	l.resolutionOrder = append(l.resolutionOrder, id)

	settledStatus := model.StatusSettledDisagreed
	if agreed {
		settledStatus = model.StatusSettledAgreed
	}

	for _, claimID := range l.claimOrder {
		claim := l.claims[claimID]
		if !claim.Status.Active() {
			continue
		}
		if textutil.Similar(claim.Text, description, l.similarityThreshold) {
			claim.Status = settledStatus
			claim.SettledRound = l.round
			claim.ResolutionType = typ
		}
	}

	return id
}

// ClaimIDs returns all tracked claim IDs in insertion order
func (l *Ledger) ClaimIDs() []string {
	ids := make([]string, len(l.claimOrder))
	copy(ids, l.claimOrder)
	return ids
}

// Claim returns the claim with the given ID, or nil
func (l *Ledger) Claim(id string) *model.Claim {
	return l.claims[id]
}

// Claims returns all claims in insertion order
func (l *Ledger) Claims() []model.Claim {
	out := make([]model.Claim, 0, len(l.claimOrder))
	for _, id := range l.claimOrder {
		out = append(out, *l.claims[id])
	}
	return out
}

// ExportStructure returns the full debate state for reporting. Claims
// and resolutions come out in insertion order.
func (l *Ledger) ExportStructure() model.DebateStructure {
	structure := model.DebateStructure{
		Round:    l.round,
		Claims:   l.Claims(),
		Progress: l.ProgressSummary(),
	}

	for _, id := range l.resolutionOrder {
		structure.Resolutions = append(structure.Resolutions, *l.resolutions[id])
	}

	if len(l.questionsAsked) > 0 {
		structure.QuestionCounts = l.QuestionCounts()
	}

	return structure
}

// ProgressSummary reports overall debate progress
func (l *Ledger) ProgressSummary() model.ProgressSummary {
	summary := model.ProgressSummary{
		Round:            l.round,
		TotalClaims:      len(l.claims),
		ResolutionPoints: len(l.resolutions),
	}

	for _, id := range l.claimOrder {
		claim := l.claims[id]
		if claim.Status.Settled() {
			summary.SettledClaims++
		}
		if claim.Status.Active() {
			summary.ActiveClaims++
		}
		if claim.RehashCount >= l.rehashThreshold {
			summary.RehashWarnings = append(summary.RehashWarnings, model.ClaimRehashNote{
				Claim:       truncate(claim.Text, 100),
				RehashCount: claim.RehashCount,
				Speaker:     claim.Speaker,
			})
		}
	}

	if summary.TotalClaims > 0 {
		summary.ProgressPercentage = float64(summary.SettledClaims) / float64(summary.TotalClaims) * 100
	}

	for _, id := range l.resolutionOrder {
		res := l.resolutions[id]
		if res.AgreedByBoth {
			summary.SettledResolutions = append(summary.SettledResolutions, *res)
		} else {
			summary.UnresolvedDisagreements = append(summary.UnresolvedDisagreements, *res)
		}
	}

	return summary
}

// Guidance derives progression advice from the current ledger state
func (l *Ledger) Guidance() model.Guidance {
	summary := l.ProgressSummary()
	var guidance model.Guidance

	if len(summary.RehashWarnings) > 0 {
		guidance.Warnings = append(guidance.Warnings,
			fmt.Sprintf("Detecting rehashing of %d claims", len(summary.RehashWarnings)))
		guidance.Suggestions = append(guidance.Suggestions,
			"Consider focusing on new evidence or moving to adjacent topics")
	}

	stagnant := 0
	for _, id := range l.claimOrder {
		claim := l.claims[id]
		if claim.Status == model.StatusDisputed && l.round-claim.RoundIntroduced > l.stagnantRounds {
			stagnant++
		}
	}
	if stagnant > 0 {
		guidance.Warnings = append(guidance.Warnings,
			fmt.Sprintf("%d claims have been disputed for more than %d rounds", stagnant, l.stagnantRounds))
		guidance.Suggestions = append(guidance.Suggestions,
			"Consider requesting specific evidence or agreeing to disagree")
	}

	switch {
	case summary.ProgressPercentage < 30:
		guidance.NextSteps = append(guidance.NextSteps,
			"Focus on establishing common ground and shared definitions")
	case summary.ProgressPercentage < 60:
		guidance.NextSteps = append(guidance.NextSteps,
			"Work toward resolution of key disputed points")
	default:
		guidance.NextSteps = append(guidance.NextSteps,
			"Synthesize agreements and identify remaining differences")
	}

	return guidance
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
