package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/ingest"
	"github.com/parleyhq/parley/internal/model"
)

func writeTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing transcript: %v", err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	path := writeTranscript(t, "debate.yaml", `
id: debate-001
topic: machine consciousness
domain: ai_consciousness
messages:
  - speaker: agent_a
    text: I believe consciousness requires subjective experience.
  - speaker: agent_b
    text: I disagree, computation alone cannot produce awareness.
  - speaker: agent_a
    text: The evidence shows that neural processing is computational.
  - speaker: agent_b
    text: I agree.
`)

	p := NewPipeline(model.DefaultConfig())
	result, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	rep := result.Report
	if rep.ConversationID != "debate-001" {
		t.Errorf("Expected conversation ID from transcript, got %s", rep.ConversationID)
	}
	if rep.Messages != 4 {
		t.Errorf("Expected 4 messages analyzed, got %d", rep.Messages)
	}
	if rep.FinalContinue {
		t.Errorf("Expected final agreement to stop the debate, got continue: %s", rep.FinalReason)
	}
	if !strings.Contains(rep.FinalReason, "agreement reached") {
		t.Errorf("Expected agreement reason, got %q", rep.FinalReason)
	}
}

func TestAnalyzeTranscript_DefaultsTopicAndDomain(t *testing.T) {
	p := NewPipeline(nil)
	transcript := &ingest.Transcript{
		ID: "untitled",
		Messages: []ingest.Message{
			{Speaker: "agent_a", Text: "Opening statement.", Round: 1},
		},
	}

	result, err := p.AnalyzeTranscript(context.Background(), transcript)
	if err != nil {
		t.Fatalf("AnalyzeTranscript: %v", err)
	}
	if result.Report.Topic != "untitled" {
		t.Errorf("Expected topic defaulted from ID, got %q", result.Report.Topic)
	}
	if result.Report.Domain != "general" {
		t.Errorf("Expected domain defaulted to general, got %q", result.Report.Domain)
	}
}

func TestAnalyzeTranscript_Empty(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.AnalyzeTranscript(context.Background(), &ingest.Transcript{ID: "empty"})
	if err == nil {
		t.Error("Expected error for transcript with no messages")
	}
}

func TestAnalyzeTranscript_Canceled(t *testing.T) {
	p := NewPipeline(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transcript := &ingest.Transcript{
		ID: "canceled",
		Messages: []ingest.Message{
			{Speaker: "agent_a", Text: "Opening statement.", Round: 1},
		},
	}
	if _, err := p.AnalyzeTranscript(ctx, transcript); err == nil {
		t.Error("Expected error for canceled context")
	}
}

func TestRenderReport(t *testing.T) {
	path := writeTranscript(t, "debate.yaml", `
topic: machine consciousness
domain: ai_consciousness
messages:
  - speaker: agent_a
    text: I believe consciousness is computable in principle.
`)

	p := NewPipeline(model.DefaultConfig())
	result, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	mdPath := filepath.Join(dir, "out.md")

	if err := p.RenderReport(result.Report, jsonPath, mdPath, false); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("Expected JSON output written: %v", err)
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Errorf("Expected Markdown output written: %v", err)
	}
}
