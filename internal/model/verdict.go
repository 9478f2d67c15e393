package model

import "time"

// Verdict is the combined decision object produced by the controller
// after each inbound message. It is advisory: the caller decides how to
// act on it.
type Verdict struct {
	ConversationID string `json:"conversation_id"`
	Round          int    `json:"round"`
	Speaker        string `json:"speaker"`

	Continue bool   `json:"continue"`
	Reason   string `json:"reason"`

	Agreement  AgreementAnalysis  `json:"agreement"`
	Topic      TopicAnalysis      `json:"topic"`
	Conclusion ConclusionAnalysis `json:"conclusion"`
	Evidence   EvidenceReport     `json:"evidence"`

	RehashWarnings []RehashWarning `json:"-"`
	Warnings       []WarningRecord `json:"rehash_warnings,omitempty"`

	Intervention string          `json:"intervention,omitempty"` // Drift refocus text, if any
	Guidance     Guidance        `json:"guidance"`
	Progress     ProgressSummary `json:"progress"`
}

// WarningRecord is the serializable form of a RehashWarning
type WarningRecord struct {
	Kind        WarningKind `json:"kind"`
	Description string      `json:"description"`
}

// Report is the complete analysis report for one conversation
type Report struct {
	ConversationID string    `json:"conversation_id"`
	Topic          string    `json:"topic"`
	Domain         string    `json:"domain"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	Messages       int       `json:"messages"`

	Verdicts []Verdict `json:"verdicts"`

	FinalStage    DebateStage     `json:"final_stage"`
	FinalContinue bool            `json:"final_continue"`
	FinalReason   string          `json:"final_reason"`
	Progress      ProgressSummary `json:"progress"`
	Guidance      Guidance        `json:"guidance"`
	Structure     DebateStructure `json:"debate_structure"`
}
