package model

// EvidenceRelevance is an ordinal scale of how well a citation supports
// the topic under discussion.
type EvidenceRelevance int

const (
	EvidenceHighlyRelevant EvidenceRelevance = iota + 1 // Direct support for the specific claim
	EvidenceModeratelyRelevant
	EvidenceTangentiallyRelated
	EvidenceIrrelevant
	EvidenceContradictory // Evidence contradicts the claim (reserved)
)

func (r EvidenceRelevance) String() string {
	switch r {
	case EvidenceHighlyRelevant:
		return "highly_relevant"
	case EvidenceModeratelyRelevant:
		return "moderately_relevant"
	case EvidenceTangentiallyRelated:
		return "tangentially_related"
	case EvidenceIrrelevant:
		return "irrelevant"
	case EvidenceContradictory:
		return "contradictory"
	default:
		return "unknown"
	}
}

// Weight is the contribution of this relevance level to the aggregate
// evidence-quality score.
func (r EvidenceRelevance) Weight() float64 {
	switch r {
	case EvidenceHighlyRelevant:
		return 1.0
	case EvidenceModeratelyRelevant:
		return 0.7
	case EvidenceTangentiallyRelated:
		return 0.3
	case EvidenceIrrelevant:
		return 0.0
	case EvidenceContradictory:
		return -0.5
	default:
		return 0.0
	}
}

// Citation is a reference found in message text
type Citation struct {
	Authors  []string `json:"authors,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	Year     int      `json:"year"`
	FullText string   `json:"full_text"`
	Context  string   `json:"context"` // Surrounding text where the citation appears
	Offset   int      `json:"offset"`  // Byte offset of the citation in the message
}

// EvidenceValidation is the relevance assessment for one citation
type EvidenceValidation struct {
	Citation        Citation          `json:"citation"`
	Relevance       EvidenceRelevance `json:"relevance"`
	Confidence      float64           `json:"confidence"`
	Explanation     string            `json:"explanation"`
	TopicMatchScore float64           `json:"topic_match_score"`
	ContextAnalysis string            `json:"context_analysis"`
}

// RelevanceSummary counts citations per relevance level
type RelevanceSummary struct {
	HighlyRelevant      int `json:"highly_relevant"`
	ModeratelyRelevant  int `json:"moderately_relevant"`
	TangentiallyRelated int `json:"tangentially_related"`
	Irrelevant          int `json:"irrelevant"`
	Contradictory       int `json:"contradictory"`
}

// SourceQuality is a per-source credibility assessment for a URL cited
// in a message.
type SourceQuality struct {
	URL                  string   `json:"url"`
	Tier                 string   `json:"tier"`
	IsAcademic           bool     `json:"is_academic"`
	IsReputable          bool     `json:"is_reputable"`
	RequiresVerification bool     `json:"requires_verification"`
	CredibilityScore     float64  `json:"credibility_score"`
	Warnings             []string `json:"warnings,omitempty"`
}

// EvidenceReport aggregates citation validation for one message
type EvidenceReport struct {
	TotalCitations    int                  `json:"total_citations"`
	Validations       []EvidenceValidation `json:"validations,omitempty"`
	Summary           RelevanceSummary     `json:"relevance_summary"`
	QualityScore      float64              `json:"evidence_quality_score"`
	QualityAssessment string               `json:"overall_evidence_quality"`
	Sources           []SourceQuality      `json:"cited_sources,omitempty"`
}
