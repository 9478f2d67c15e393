package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/pipeline"
	"github.com/parleyhq/parley/internal/report"
)

var (
	feedTimeout   time.Duration
	feedOutputDir string
)

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed [events-file]",
	Short: "Monitor a live stream of conversation events",
	Long: `Feed reads conversation events as JSON lines from stdin (or a file)
and emits a verdict line for each. Events from different conversations
may interleave; each conversation keeps its own session until it is
ended or expires.

Event format, one per line:
  {"conversation_id": "conv-1", "topic": "machine consciousness", "speaker": "agent_a", "text": "..."}
  {"conversation_id": "conv-1", "end": true}

An end event closes the session and writes its final report. Sessions
still open at end of input are closed the same way.

Example:
  tail -f events.jsonl | parley feed
  parley feed recorded-events.jsonl --output-dir ./reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().DurationVar(&feedTimeout, "timeout", 0, "overall stream timeout (0 for none)")
	feedCmd.Flags().StringVar(&feedOutputDir, "output-dir", "./parley-reports", "output directory for final reports")
	feedCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

// feedLine is one line of the event stream: either a message event or
// an end marker for a conversation.
type feedLine struct {
	pipeline.FeedEvent
	End bool `json:"end,omitempty"`
}

// session remembers the topic and domain a conversation was opened
// with, so its end report matches.
type session struct {
	topic  string
	domain string
}

func runFeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if feedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, feedTimeout)
		defer cancel()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.IncludeFooter = !noFooter

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open events file: %w", err)
		}
		defer f.Close()
		in = f
	}

	if err := os.MkdirAll(feedOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	feed := pipeline.NewFeed(cfg)
	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	sessions := make(map[string]session)
	out := json.NewEncoder(os.Stdout)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stream timeout: %w", err)
		}

		var line feedLine
		if err := json.Unmarshal(raw, &line); err != nil {
			fmt.Fprintf(os.Stderr, "✗ line %d: invalid event: %v\n", lineNo, err)
			continue
		}

		if line.End {
			if err := endSession(feed, renderer, sessions, line.ConversationID); err != nil {
				fmt.Fprintf(os.Stderr, "✗ line %d: %v\n", lineNo, err)
			}
			continue
		}

		verdict, err := feed.Handle(ctx, line.FeedEvent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ line %d: %v\n", lineNo, err)
			continue
		}
		if _, seen := sessions[line.ConversationID]; !seen {
			sessions[line.ConversationID] = session{topic: line.Topic, domain: line.Domain}
		}
		if err := out.Encode(verdict); err != nil {
			return fmt.Errorf("write verdict: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	// Close whatever the stream left open
	for id := range sessions {
		if err := endSession(feed, renderer, sessions, id); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	}

	return nil
}

// endSession finalizes one conversation: report written to the output
// directory, session dropped from the registry.
func endSession(feed *pipeline.Feed, renderer *report.Renderer, sessions map[string]session, id string) error {
	if id == "" {
		return fmt.Errorf("end event missing conversation_id")
	}
	s, ok := sessions[id]
	if !ok {
		return fmt.Errorf("end event for unknown conversation %s", id)
	}
	delete(sessions, id)

	topic := s.topic
	if topic == "" {
		topic = id
	}
	domain := s.domain
	if domain == "" {
		domain = "general"
	}

	rep := feed.End(id, topic, domain)
	slug := sanitizeFilename(id)
	jsonPath := filepath.Join(feedOutputDir, slug+".json")
	mdPath := filepath.Join(feedOutputDir, slug+".md")

	if err := renderer.RenderJSON(&rep, jsonPath); err != nil {
		return fmt.Errorf("write report for %s: %w", id, err)
	}
	if err := renderer.RenderMarkdown(&rep, mdPath); err != nil {
		return fmt.Errorf("write report for %s: %w", id, err)
	}

	decision := "continue"
	if !rep.FinalContinue {
		decision = "stop"
	}
	fmt.Fprintf(os.Stderr, "✓ %s ended after %d messages (stage: %s, decision: %s)\n",
		id, rep.Messages, rep.FinalStage, decision)
	return nil
}
