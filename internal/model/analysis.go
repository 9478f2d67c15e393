package model

// AgreementLevel is an ordinal scale from strongest disagreement to
// strongest agreement.
type AgreementLevel int

const (
	StrongDisagreement AgreementLevel = iota + 1
	Disagreement
	MixedResponse
	LeaningAgreement
	Agreement
	StrongAgreement
)

func (l AgreementLevel) String() string {
	switch l {
	case StrongDisagreement:
		return "strong_disagreement"
	case Disagreement:
		return "disagreement"
	case MixedResponse:
		return "mixed_response"
	case LeaningAgreement:
		return "leaning_agreement"
	case Agreement:
		return "agreement"
	case StrongAgreement:
		return "strong_agreement"
	default:
		return "unknown"
	}
}

// SignalCounts are the per-category lexicon hit counts for one message
type SignalCounts struct {
	Disagreement    int `json:"disagreement_signals"`
	Reservation     int `json:"reservation_signals"`
	Continuation    int `json:"debate_continuation_signals"`
	Questions       int `json:"questions"`
	Agreement       int `json:"agreement_signals"`
	StrongAgreement int `json:"strong_agreement_signals"`
	Stop            int `json:"stop_signals"`
}

// MessageStats are basic size characteristics of the analyzed message
type MessageStats struct {
	Sentences int `json:"sentences"`
	Words     int `json:"words"`
}

// AgreementAnalysis is the stateless per-message agreement decision
type AgreementAnalysis struct {
	Level          AgreementLevel `json:"agreement_level"`
	Confidence     float64        `json:"confidence"`
	ContinueDebate bool           `json:"should_continue_debate"`
	Explanation    string         `json:"explanation"`
	Signals        SignalCounts   `json:"indicators"`
	Stats          MessageStats   `json:"message_stats"`
}

// TopicRelevance is an ordinal scale of how well a message or citation
// stays on the seeded topic. Lower is better.
type TopicRelevance int

const (
	HighlyRelevant TopicRelevance = iota + 1
	ModeratelyRelevant
	TangentiallyRelated
	TopicDrift
	CompletelyUnrelated
)

func (r TopicRelevance) String() string {
	switch r {
	case HighlyRelevant:
		return "highly_relevant"
	case ModeratelyRelevant:
		return "moderately_relevant"
	case TangentiallyRelated:
		return "tangentially_related"
	case TopicDrift:
		return "topic_drift"
	case CompletelyUnrelated:
		return "completely_unrelated"
	default:
		return "unknown"
	}
}

// Drifting reports whether the level counts against the drift counter
func (r TopicRelevance) Drifting() bool {
	return r == TopicDrift || r == CompletelyUnrelated
}

// TopicAnalysis is the per-message topic coherence result
type TopicAnalysis struct {
	Segment           string         `json:"message_segment"`
	DriftFamilies     []string       `json:"detected_topics,omitempty"`
	Relevance         TopicRelevance `json:"relevance_level"`
	Confidence        float64        `json:"confidence"`
	Explanation       string         `json:"drift_explanation"`
	SuggestedRedirect string         `json:"suggested_redirect,omitempty"`
	CoreMatches       int            `json:"core_matches"`
	DriftMatches      int            `json:"drift_matches"`
}

// DebateStage is a coarse phase label for how far an exchange has
// progressed toward conclusion.
type DebateStage int

const (
	InitialExploration DebateStage = iota + 1 // Opening positions and broad exploration
	ActiveEngagement                          // Detailed discussion and challenges
	DeepAnalysis                              // Detailed evidence and technical discussion
	ConvergenceAttempt                        // Moving toward resolution or agreement
	NaturalConclusion                         // Debate has reached natural endpoint
	CircularRepetition                        // Debate is going in circles without progress
)

func (s DebateStage) String() string {
	switch s {
	case InitialExploration:
		return "initial_exploration"
	case ActiveEngagement:
		return "active_engagement"
	case DeepAnalysis:
		return "deep_analysis"
	case ConvergenceAttempt:
		return "convergence_attempt"
	case NaturalConclusion:
		return "natural_conclusion"
	case CircularRepetition:
		return "circular_repetition"
	default:
		return "unknown"
	}
}

// ConclusionIndicators is the bundle of raw signals the conclusion
// decision is made from. All values are counts or 0/1 flags so the
// decision stays transparent.
type ConclusionIndicators struct {
	ConclusionPhrases    int `json:"conclusion_phrases"`
	AgreementCount       int `json:"agreement_count"`
	ExhaustionPhrases    int `json:"exhaustion_phrases"`
	StagnationPhrases    int `json:"stagnation_phrases"`
	RepetitionCount      int `json:"repetition_count"`
	MessageLengthDecline int `json:"message_length_decline"`
	TopicSaturation      int `json:"topic_saturation"`
	RoundsProcessed      int `json:"rounds_processed"`
	PositionConvergence  int `json:"position_convergence"`
	CircularScore        int `json:"circular_debate_score"`
}

// ConclusionAnalysis is the per-call conclusion decision
type ConclusionAnalysis struct {
	Stage           DebateStage          `json:"current_stage"`
	ShouldConclude  bool                 `json:"should_conclude"`
	Confidence      float64              `json:"conclusion_confidence"`
	Reason          string               `json:"conclusion_reason"`
	SuggestedAction string               `json:"suggested_action"`
	Indicators      ConclusionIndicators `json:"progress_indicators"`
}
