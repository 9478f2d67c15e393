// Package ingest loads conversation transcripts from YAML, JSON, and
// HTML chat exports into a common form.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Message is one turn of a conversation
type Message struct {
	Speaker string `yaml:"speaker" json:"speaker"`
	Text    string `yaml:"text" json:"text"`
	Round   int    `yaml:"round,omitempty" json:"round,omitempty"`
}

// Transcript is a full conversation ready for analysis
type Transcript struct {
	ID       string    `yaml:"id" json:"id"`
	Topic    string    `yaml:"topic" json:"topic"`
	Domain   string    `yaml:"domain,omitempty" json:"domain,omitempty"`
	Messages []Message `yaml:"messages" json:"messages"`
}

// reasoningBlocks match model scratchpad markup that some chat exports
// carry inline. The content is not part of the conversation. One
// alternation per tag name, so only matching open/close pairs strip.
var reasoningBlocks = regexp.MustCompile(`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`)

// speakerLine matches "Speaker: text" lines in plain-text exports
var speakerLine = regexp.MustCompile(`^([A-Za-z][\w .-]{0,40}):\s+(.*)$`)

// LoadFile reads a transcript, dispatching on file extension
func LoadFile(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	var transcript *Transcript
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		transcript, err = ParseYAML(data)
	case ".json":
		transcript, err = ParseJSON(data)
	case ".html", ".htm":
		transcript, err = ParseHTML(data)
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if transcript.ID == "" {
		base := filepath.Base(path)
		transcript.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	normalize(transcript)
	return transcript, nil
}

// ParseYAML decodes a YAML transcript
func ParseYAML(data []byte) (*Transcript, error) {
	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseJSON decodes a JSON transcript
func ParseJSON(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseHTML extracts a transcript from an HTML chat export. Visible
// text is walked line by line; lines of the form "Speaker: text" open
// a new message, continuation lines append to the current one.
func ParseHTML(data []byte) (*Transcript, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	t := &Transcript{Topic: titleOf(doc)}

	var current *Message
	for _, line := range visibleLines(doc) {
		if match := speakerLine.FindStringSubmatch(line); match != nil {
			t.Messages = append(t.Messages, Message{
				Speaker: strings.TrimSpace(match[1]),
				Text:    strings.TrimSpace(match[2]),
			})
			current = &t.Messages[len(t.Messages)-1]
			continue
		}
		if current != nil {
			current.Text += " " + line
		}
	}

	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("no speaker-attributed lines found in HTML export")
	}
	return t, nil
}

// visibleLines walks the document and returns visible text split on
// block boundaries. Script, style, and head content is skipped.
func visibleLines(doc *html.Node) []string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			case "p", "div", "br", "li", "tr", "h1", "h2", "h3":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func titleOf(doc *html.Node) string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// StripReasoning removes inline scratchpad blocks from a message
func StripReasoning(text string) string {
	cleaned := reasoningBlocks.ReplaceAllString(text, "")
	return strings.TrimSpace(collapseSpaces(cleaned))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalize fills in default rounds and strips reasoning markup.
// Messages without an explicit round are numbered by position.
func normalize(t *Transcript) {
	for i := range t.Messages {
		if t.Messages[i].Round == 0 {
			t.Messages[i].Round = i + 1
		}
		t.Messages[i].Text = StripReasoning(t.Messages[i].Text)
		t.Messages[i].Speaker = strings.TrimSpace(t.Messages[i].Speaker)
	}
}
