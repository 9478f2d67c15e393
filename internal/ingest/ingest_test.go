package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "debate.yaml", `
id: debate-001
topic: machine consciousness
domain: ai_consciousness
messages:
  - speaker: agent_a
    text: I believe consciousness is computable.
  - speaker: agent_b
    text: Could you provide evidence for that?
`)

	transcript, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if transcript.ID != "debate-001" {
		t.Errorf("Expected id debate-001, got %s", transcript.ID)
	}
	if transcript.Topic != "machine consciousness" {
		t.Errorf("Expected topic, got %q", transcript.Topic)
	}
	if len(transcript.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript.Messages))
	}
	if transcript.Messages[0].Round != 1 || transcript.Messages[1].Round != 2 {
		t.Errorf("Expected default round numbering, got %d and %d",
			transcript.Messages[0].Round, transcript.Messages[1].Round)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "debate.json", `{
  "topic": "machine consciousness",
  "messages": [
    {"speaker": "agent_a", "text": "Opening statement.", "round": 5}
  ]
}`)

	transcript, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if transcript.ID != "debate" {
		t.Errorf("Expected ID from filename, got %s", transcript.ID)
	}
	if transcript.Messages[0].Round != 5 {
		t.Errorf("Expected explicit round preserved, got %d", transcript.Messages[0].Round)
	}
}

func TestLoadFile_HTML(t *testing.T) {
	path := writeFile(t, "export.html", `<html>
<head><title>consciousness debate</title><style>body{}</style></head>
<body>
<p>agent_a: I believe machines can be conscious.</p>
<p>agent_b: What evidence supports that claim?</p>
</body>
</html>`)

	transcript, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if transcript.Topic != "consciousness debate" {
		t.Errorf("Expected topic from title, got %q", transcript.Topic)
	}
	if len(transcript.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript.Messages))
	}
	if transcript.Messages[0].Speaker != "agent_a" {
		t.Errorf("Expected speaker agent_a, got %q", transcript.Messages[0].Speaker)
	}
	if !strings.Contains(transcript.Messages[1].Text, "evidence") {
		t.Errorf("Expected message text, got %q", transcript.Messages[1].Text)
	}
}

func TestLoadFile_HTMLContinuationLines(t *testing.T) {
	path := writeFile(t, "export.html", `<html><body>
<p>agent_a: First part of the message.</p>
<p>And the continuation without a speaker.</p>
</body></html>`)

	transcript, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(transcript.Messages) != 1 {
		t.Fatalf("Expected continuation folded into 1 message, got %d", len(transcript.Messages))
	}
	if !strings.Contains(transcript.Messages[0].Text, "continuation") {
		t.Errorf("Expected continuation in text, got %q", transcript.Messages[0].Text)
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "debate.txt", "agent_a: hello")
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestLoadFile_HTMLWithoutSpeakers(t *testing.T) {
	path := writeFile(t, "empty.html", "<html><body><p>Just prose, no dialogue.</p></body></html>")
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error when no speaker lines found")
	}
}

func TestStripReasoning(t *testing.T) {
	in := "Visible statement. <thinking>hidden scratchpad</thinking> More visible text."
	got := StripReasoning(in)

	if strings.Contains(got, "scratchpad") {
		t.Errorf("Expected reasoning removed, got %q", got)
	}
	if !strings.Contains(got, "Visible statement.") || !strings.Contains(got, "More visible text.") {
		t.Errorf("Expected surrounding text kept, got %q", got)
	}
}

func TestStripReasoning_MultipleBlocks(t *testing.T) {
	in := "A <think>x</think> B <reasoning>y</reasoning> C"
	got := StripReasoning(in)
	if got != "A B C" {
		t.Errorf("Expected 'A B C', got %q", got)
	}
}

func TestStripReasoning_MismatchedTagsKept(t *testing.T) {
	in := "A <thinking>x</reasoning> B"
	got := StripReasoning(in)
	if got != "A <thinking>x</reasoning> B" {
		t.Errorf("Expected mismatched tags left alone, got %q", got)
	}
}

func TestStripReasoning_AppliedOnLoad(t *testing.T) {
	path := writeFile(t, "debate.yaml", `
topic: test
messages:
  - speaker: agent_a
    text: "Claim here. <thinking>internal notes</thinking> Final words."
`)

	transcript, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if strings.Contains(transcript.Messages[0].Text, "internal notes") {
		t.Errorf("Expected reasoning stripped on load, got %q", transcript.Messages[0].Text)
	}
}
