package model

import "fmt"

// WarningKind classifies a rehash warning
type WarningKind string

const (
	WarningSettledClaim       WarningKind = "settled_claim"
	WarningExcessiveClaim     WarningKind = "excessive_claim"
	WarningRepetitiveQuestion WarningKind = "repetitive_question"
)

// RehashWarning is emitted when a message re-introduces material the
// debate has already been through. Each kind carries its own fields.
type RehashWarning interface {
	Kind() WarningKind
	Describe() string
}

// SettledClaimRehash flags a claim that was settled earlier in the
// debate but has resurfaced in the current message.
type SettledClaimRehash struct {
	ClaimID      string      `json:"claim_id"`
	ClaimText    string      `json:"claim_text"`
	Status       ClaimStatus `json:"status"`
	SettledRound int         `json:"settled_round"`
	RehashCount  int         `json:"rehash_count"`
}

func (w SettledClaimRehash) Kind() WarningKind { return WarningSettledClaim }

func (w SettledClaimRehash) Describe() string {
	return fmt.Sprintf("claim settled in round %d is being raised again: %s", w.SettledRound, truncate(w.ClaimText, 100))
}

// ExcessiveClaimRehash flags a claim repeated past the rehash threshold
type ExcessiveClaimRehash struct {
	ClaimID     string `json:"claim_id"`
	ClaimText   string `json:"claim_text"`
	RehashCount int    `json:"rehash_count"`
	Suggestion  string `json:"suggestion"`
}

func (w ExcessiveClaimRehash) Kind() WarningKind { return WarningExcessiveClaim }

func (w ExcessiveClaimRehash) Describe() string {
	return fmt.Sprintf("claim repeated %d times: %s", w.RehashCount, truncate(w.ClaimText, 100))
}

// RepetitiveQuestion flags a question pattern asked past the threshold.
// A rephrased question rarely passes literal similarity checks, so the
// pattern bucket is what actually catches stagnating interrogation.
type RepetitiveQuestion struct {
	Pattern    string `json:"pattern"`
	Text       string `json:"text"`
	Count      int    `json:"count"`
	Suggestion string `json:"suggestion"`
}

func (w RepetitiveQuestion) Kind() WarningKind { return WarningRepetitiveQuestion }

func (w RepetitiveQuestion) Describe() string {
	return fmt.Sprintf("question pattern %q asked %d times", w.Pattern, w.Count)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
