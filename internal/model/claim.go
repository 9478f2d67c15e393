package model

// ClaimStatus tracks where a claim stands in the debate
type ClaimStatus string

const (
	StatusProposed         ClaimStatus = "proposed"          // Newly introduced claim
	StatusDisputed         ClaimStatus = "disputed"          // Being actively debated
	StatusSupported        ClaimStatus = "supported"         // Has supporting evidence
	StatusChallenged       ClaimStatus = "challenged"        // Under challenge by the other speaker
	StatusSettledAgreed    ClaimStatus = "settled_agreed"    // Both parties agree
	StatusSettledDisagreed ClaimStatus = "settled_disagreed" // Agreed to disagree
	StatusAbandoned        ClaimStatus = "abandoned"         // No longer being pursued
)

// Settled reports whether the claim has reached a settled state
func (s ClaimStatus) Settled() bool {
	return s == StatusSettledAgreed || s == StatusSettledDisagreed
}

// Active reports whether the claim is still under dispute
func (s ClaimStatus) Active() bool {
	return s == StatusDisputed || s == StatusChallenged
}

// ResolutionType categorizes how a disputed point was resolved
type ResolutionType string

const (
	ResolutionEvidenceBased ResolutionType = "evidence_based" // Resolved by evidence
	ResolutionLogical       ResolutionType = "logical"        // Resolved by logic
	ResolutionDefinitional  ResolutionType = "definitional"   // Resolved by defining terms
	ResolutionEmpirical     ResolutionType = "empirical"      // Resolved by data/studies
	ResolutionPragmatic     ResolutionType = "pragmatic"      // Resolved by practical considerations
	ResolutionPhilosophical ResolutionType = "philosophical"  // Fundamental worldview differences
)

// Claim is a declarative assertion extracted from a message and tracked
// across rounds. The ID is a stable hash of the normalized text, so the
// same sentence always maps to the same claim.
type Claim struct {
	ID                 string         `json:"id"`
	Text               string         `json:"text"`
	Speaker            string         `json:"speaker"`
	RoundIntroduced    int            `json:"round_introduced"`
	Status             ClaimStatus    `json:"status"`
	SupportingEvidence []string       `json:"supporting_evidence,omitempty"`
	Challenges         []string       `json:"challenges,omitempty"`
	ResolutionType     ResolutionType `json:"resolution_type,omitempty"`
	SettledRound       int            `json:"settled_round,omitempty"`
	RehashCount        int            `json:"rehash_count"`
	LastMentionedRound int            `json:"last_mentioned_round"`
}

// ResolutionPoint records a settlement of a disputed issue. It is
// append-only and immutable after creation.
type ResolutionPoint struct {
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	Type          ResolutionType `json:"type"`
	RoundResolved int            `json:"round_resolved"`
	AgreedByBoth  bool           `json:"agreed_by_both"`
	PositionA     string         `json:"position_a"`
	PositionB     string         `json:"position_b"`
	EvidenceBasis []string       `json:"evidence_basis,omitempty"`
}

// ResponseAnalysis summarizes how a message responds to earlier claims
type ResponseAnalysis struct {
	Agreements       []string `json:"agreements"`        // Claim IDs the speaker agreed with
	Challenges       []string `json:"challenges"`        // Claim IDs the speaker challenged
	EvidenceProvided []string `json:"evidence_provided"` // Evidence marker phrases found
	Speaker          string   `json:"speaker"`
	Round            int      `json:"round"`
}

// ProgressSummary is a snapshot of debate progress for the caller
type ProgressSummary struct {
	Round                   int               `json:"round"`
	TotalClaims             int               `json:"total_claims"`
	SettledClaims           int               `json:"settled_claims"`
	ActiveClaims            int               `json:"active_claims"`
	ProgressPercentage      float64           `json:"progress_percentage"`
	ResolutionPoints        int               `json:"resolution_points"`
	RehashWarnings          []ClaimRehashNote `json:"rehash_warnings,omitempty"`
	SettledResolutions      []ResolutionPoint `json:"settled_resolutions,omitempty"`
	UnresolvedDisagreements []ResolutionPoint `json:"unresolved_disagreements,omitempty"`
}

// ClaimRehashNote flags a claim that has been repeated past the threshold
type ClaimRehashNote struct {
	Claim       string `json:"claim"`
	RehashCount int    `json:"rehash_count"`
	Speaker     string `json:"speaker"`
}

// DebateStructure is the full exportable state of a tracked debate:
// every claim, every resolution point, and the question buckets.
type DebateStructure struct {
	Round          int               `json:"round"`
	Claims         []Claim           `json:"claims"`
	Resolutions    []ResolutionPoint `json:"resolutions"`
	QuestionCounts map[string]int    `json:"question_counts,omitempty"`
	Progress       ProgressSummary   `json:"progress"`
}

// Guidance is progression advice meant to be interpolated as plain text
// into the next generation request.
type Guidance struct {
	Suggestions []string `json:"suggestions,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	NextSteps   []string `json:"next_steps,omitempty"`
}
