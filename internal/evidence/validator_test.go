package evidence

import (
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/model"
)

func newTestValidator() *Validator {
	cfg := model.DefaultConfig()
	return New("ai_consciousness", cfg.Topics, cfg.Analysis.KnowledgeCutoffYear)
}

func TestExtractCitations_AuthorYear(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("Research by Seidu et al. (2023) explores glucose monitoring.")

	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}
	c := citations[0]
	if len(c.Authors) != 1 || c.Authors[0] != "Seidu et al." {
		t.Errorf("Expected author 'Seidu et al.', got %v", c.Authors)
	}
	if c.Year != 2023 {
		t.Errorf("Expected year 2023, got %d", c.Year)
	}
	if !strings.Contains(c.Context, "glucose monitoring") {
		t.Errorf("Expected trailing context, got %q", c.Context)
	}
}

func TestExtractCitations_MultiWordAuthor(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("According to Allen Institute (2025), the matter is settled.")

	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}
	if citations[0].Authors[0] != "Allen Institute" {
		t.Errorf("Expected author 'Allen Institute', got %v", citations[0].Authors)
	}
	if citations[0].Year != 2025 {
		t.Errorf("Expected year 2025, got %d", citations[0].Year)
	}
}

func TestExtractCitations_PublishedIn(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("The result was published in Diabetes Care (2020) last spring.")

	// The journal name followed by a year also matches the author-year
	// pattern, so the reference is extracted twice.
	var journal *model.Citation
	for i := range citations {
		if citations[i].Journal != "" {
			journal = &citations[i]
		}
	}
	if journal == nil {
		t.Fatalf("Expected a journal citation, got %v", citations)
	}
	if journal.Journal != "Diabetes Care" {
		t.Errorf("Expected journal 'Diabetes Care', got %q", journal.Journal)
	}
	if journal.Year != 2020 {
		t.Errorf("Expected year 2020, got %d", journal.Year)
	}
}

func TestExtractCitations_SortedByOffset(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations(
		"A result published in Cognition (2019) contradicts Smith (2018) on every count.")

	if len(citations) < 2 {
		t.Fatalf("Expected at least 2 citations, got %d", len(citations))
	}
	for i := 1; i < len(citations); i++ {
		if citations[i-1].Offset > citations[i].Offset {
			t.Error("Expected citations sorted by position in message")
		}
	}
}

func TestValidate_FutureDatedIsIrrelevant(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("According to Allen Institute (2025), consciousness is fully solved.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	validation := v.Validate(citations[0], "consciousness is fully solved", "ai consciousness")
	if validation.Relevance != model.EvidenceIrrelevant {
		t.Errorf("Expected irrelevant for future citation, got %s", validation.Relevance)
	}
	if validation.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %f", validation.Confidence)
	}
	if !strings.Contains(validation.Explanation, "future-dated") {
		t.Errorf("Expected future-dated explanation, got %q", validation.Explanation)
	}
	if validation.TopicMatchScore != 0.0 {
		t.Errorf("Expected zero topic match for future citation, got %f", validation.TopicMatchScore)
	}
}

func TestValidate_CutoffYearItselfIsFuture(t *testing.T) {
	v := newTestValidator()
	citation := model.Citation{Year: 2024, FullText: "Smith (2024)", Context: "Smith (2024) on consciousness"}

	validation := v.Validate(citation, "", "ai consciousness")
	if validation.Relevance != model.EvidenceIrrelevant {
		t.Errorf("Expected year equal to cutoff to be rejected, got %s", validation.Relevance)
	}
}

func TestValidate_OffTopicFamilyMismatch(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations(
		"The study by Seidu et al. (2023) covered diabetes glucose insulin treatment for each patient.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	validation := v.Validate(citations[0], "", "quantum theories of machine sentience")
	if validation.Relevance != model.EvidenceIrrelevant {
		t.Errorf("Expected irrelevant for medical study on unrelated topic, got %s", validation.Relevance)
	}
	if !strings.Contains(validation.Explanation, "medical_health") {
		t.Errorf("Expected family named in explanation, got %q", validation.Explanation)
	}
}

func TestValidate_StrongOverlapIsHighlyRelevant(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("Hameroff (2020) argues quantum consciousness in microtubules.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	validation := v.Validate(citations[0], "", "quantum consciousness in machines")
	if validation.Relevance != model.EvidenceHighlyRelevant {
		t.Errorf("Expected highly_relevant, got %s", validation.Relevance)
	}
	if validation.TopicMatchScore <= 0.5 {
		t.Errorf("Expected topic match above 0.5, got %f", validation.TopicMatchScore)
	}
}

func TestValidate_GenericResearchIsTangential(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("A recent study by Brown (2020) offers new data and findings.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	validation := v.Validate(citations[0], "", "urban transit policy")
	if validation.Relevance != model.EvidenceTangentiallyRelated {
		t.Errorf("Expected tangentially_related, got %s", validation.Relevance)
	}
}

func TestValidate_SupportingContext(t *testing.T) {
	v := newTestValidator()
	citations := v.ExtractCitations("Work by Smith (2020) shows that consciousness theories converge.")
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}

	validation := v.Validate(citations[0], "", "consciousness")
	if validation.ContextAnalysis != "citation used as supporting evidence" {
		t.Errorf("Expected supporting-evidence context, got %q", validation.ContextAnalysis)
	}
}

func TestValidateMessage_NoCitations(t *testing.T) {
	v := newTestValidator()
	report := v.ValidateMessage("This message argues from first principles alone.", "ai consciousness")

	if report.TotalCitations != 0 {
		t.Errorf("Expected 0 citations, got %d", report.TotalCitations)
	}
	if report.QualityAssessment != "No citations found" {
		t.Errorf("Expected no-citations assessment, got %q", report.QualityAssessment)
	}
}

func TestValidateMessage_FutureCitationContributesZero(t *testing.T) {
	v := newTestValidator()
	report := v.ValidateMessage(
		"Quantum consciousness theory by Hameroff (2020) suggests microtubules matter. "+
			"A newer result from Allen Institute (2025) claims definitive proof.",
		"quantum consciousness and microtubules")

	if report.TotalCitations != 2 {
		t.Fatalf("Expected 2 citations, got %d", report.TotalCitations)
	}
	if report.Summary.HighlyRelevant != 1 {
		t.Errorf("Expected 1 highly relevant citation, got %d", report.Summary.HighlyRelevant)
	}
	if report.Summary.Irrelevant != 1 {
		t.Errorf("Expected 1 irrelevant citation, got %d", report.Summary.Irrelevant)
	}
	if report.QualityScore != 0.5 {
		t.Errorf("Expected quality score 0.5, got %f", report.QualityScore)
	}
}

func TestValidateMessage_AllFutureIsPoor(t *testing.T) {
	v := newTestValidator()
	report := v.ValidateMessage(
		"According to Allen Institute (2025), the debate is over.", "ai consciousness")

	if report.QualityScore != 0.0 {
		t.Errorf("Expected zero quality score, got %f", report.QualityScore)
	}
	if !strings.Contains(report.QualityAssessment, "Poor evidence quality") {
		t.Errorf("Expected poor quality assessment, got %q", report.QualityAssessment)
	}
}
