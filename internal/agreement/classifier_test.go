package agreement

import (
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/model"
)

func TestAnalyze_ExplicitStop(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("This has been productive. <STOP>")

	if analysis.Level != model.StrongAgreement {
		t.Errorf("Expected strong_agreement on stop token, got %s", analysis.Level)
	}
	if analysis.ContinueDebate {
		t.Error("Expected debate to end on stop token")
	}
	if analysis.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %f", analysis.Confidence)
	}
}

func TestAnalyze_DoubleStrongAgreement(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("I'm fully convinced. You've won me over on every point.")

	if analysis.Level != model.StrongAgreement {
		t.Errorf("Expected strong_agreement, got %s", analysis.Level)
	}
	if analysis.ContinueDebate {
		t.Error("Expected debate to end on doubled strong agreement")
	}
}

func TestAnalyze_StrongDisagreement(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("I disagree. This is wrong. I reject the entire framing.")

	if analysis.Level != model.StrongDisagreement {
		t.Errorf("Expected strong_disagreement, got %s", analysis.Level)
	}
	if !analysis.ContinueDebate {
		t.Error("Expected debate to continue on strong disagreement")
	}
	if analysis.Signals.Disagreement < 3 {
		t.Errorf("Expected at least 3 disagreement signals, got %d", analysis.Signals.Disagreement)
	}
}

func TestAnalyze_QuestionsKeepDebateOpen(t *testing.T) {
	c := NewClassifier()
	// Agreement phrases present, but three open questions outrank them
	analysis := c.Analyze("I agree with parts of this. How do you verify it? What if the test fails? Could you elaborate?")

	if analysis.Level != model.Disagreement {
		t.Errorf("Expected disagreement while questions remain, got %s", analysis.Level)
	}
	if !analysis.ContinueDebate {
		t.Error("Expected debate to continue with open questions")
	}
	if analysis.Signals.Questions < 3 {
		t.Errorf("Expected at least 3 question signals, got %d", analysis.Signals.Questions)
	}
}

func TestShouldEnd_NeverWithThreeQuestions(t *testing.T) {
	c := NewClassifier()

	messages := []string{
		"I agree completely? Is that settled? Are we done?",
		"You're absolutely right. Why though? How so? Since when?",
		"Case closed, surely? Or is it? What am I missing?",
	}
	for _, msg := range messages {
		if strings.Count(msg, "?") < 3 {
			t.Fatalf("Test message needs at least 3 questions: %q", msg)
		}
		shouldEnd, reason := c.ShouldEnd(msg)
		if shouldEnd {
			t.Errorf("Message with 3+ questions must not end the debate: %q (%s)", msg, reason)
		}
	}
}

func TestAnalyze_MixedResponse(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("I agree with your first point, however the second remains weak.")

	if analysis.Level != model.MixedResponse {
		t.Errorf("Expected mixed_response, got %s", analysis.Level)
	}
	if !analysis.ContinueDebate {
		t.Error("Expected debate to continue on mixed response")
	}
}

func TestAnalyze_LeaningAgreement(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("I agree with that framing. That makes sense overall.")

	if analysis.Level != model.LeaningAgreement {
		t.Errorf("Expected leaning_agreement, got %s", analysis.Level)
	}
	if !analysis.ContinueDebate {
		t.Error("Leaning agreement should still continue the debate")
	}
}

func TestAnalyze_PlainAgreement(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("I agree.")

	if analysis.Level != model.Agreement {
		t.Errorf("Expected agreement, got %s", analysis.Level)
	}
	if analysis.ContinueDebate {
		t.Error("Plain agreement with no reservations should end the debate")
	}
}

func TestAnalyze_NoSignalsDefaultsToMixed(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("The sky looked gray this morning.")

	if analysis.Level != model.MixedResponse {
		t.Errorf("Expected mixed_response default, got %s", analysis.Level)
	}
	if !analysis.ContinueDebate {
		t.Error("Expected debate to continue with no clear signals")
	}
	if analysis.Confidence != 0.5 {
		t.Errorf("Expected low default confidence, got %f", analysis.Confidence)
	}
}

func TestAnalyze_Stats(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("First point. Second point. Third point.")

	if analysis.Stats.Sentences != 3 {
		t.Errorf("Expected 3 sentences, got %d", analysis.Stats.Sentences)
	}
	if analysis.Stats.Words != 6 {
		t.Errorf("Expected 6 words, got %d", analysis.Stats.Words)
	}
}

func TestShouldEnd_AgreementReason(t *testing.T) {
	c := NewClassifier()
	shouldEnd, reason := c.ShouldEnd("I agree.")

	if !shouldEnd {
		t.Fatal("Expected conversation to end on plain agreement")
	}
	if !strings.Contains(reason, "speaker agreed") {
		t.Errorf("Expected agreement reason, got %q", reason)
	}
}

func TestShouldEnd_ContinueReason(t *testing.T) {
	c := NewClassifier()
	shouldEnd, reason := c.ShouldEnd("However, I have reservations. Could you provide more evidence?")

	if shouldEnd {
		t.Fatal("Expected conversation to continue")
	}
	if !strings.Contains(reason, "debate continues") {
		t.Errorf("Expected continue reason, got %q", reason)
	}
}
