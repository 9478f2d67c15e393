// Package pipeline orchestrates the complete transcript analysis flow:
// load, analyze message by message, report.
package pipeline

import (
	"context"
	"fmt"

	"github.com/parleyhq/parley/internal/controller"
	"github.com/parleyhq/parley/internal/ingest"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/refine"
	"github.com/parleyhq/parley/internal/report"
)

// Pipeline runs offline analysis of recorded conversations
type Pipeline struct {
	cfg      *model.Config
	refiner  refine.Refiner
	renderer *report.Renderer
}

// NewPipeline creates a pipeline with the given configuration. A
// refiner initialization failure disables refinement rather than
// failing the pipeline.
func NewPipeline(cfg *model.Config) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	return &Pipeline{
		cfg:      cfg,
		refiner:  refinerFrom(cfg),
		renderer: report.NewRenderer(cfg.Output.IncludeFooter),
	}
}

// refinerFrom builds the configured refiner, falling back to identity
// when initialization fails.
func refinerFrom(cfg *model.Config) refine.Refiner {
	if cfg.Refiner.Provider == "" {
		return refine.Identity{}
	}
	r, err := refine.New(cfg.Refiner)
	if err != nil {
		fmt.Printf("Warning: failed to initialize refiner: %v\n", err)
		return refine.Identity{}
	}
	return r
}

// AnalysisResult contains the complete analysis outcome for one transcript
type AnalysisResult struct {
	Report *model.Report
	Error  error
}

// AnalyzeFile loads a transcript file and analyzes it end to end
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*AnalysisResult, error) {
	transcript, err := ingest.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return p.AnalyzeTranscript(ctx, transcript)
}

// AnalyzeTranscript replays a transcript through a fresh controller and
// assembles the final report.
func (p *Pipeline) AnalyzeTranscript(ctx context.Context, transcript *ingest.Transcript) (*AnalysisResult, error) {
	if len(transcript.Messages) == 0 {
		return nil, fmt.Errorf("transcript %s has no messages", transcript.ID)
	}

	topic := transcript.Topic
	if topic == "" {
		topic = transcript.ID
	}
	domain := transcript.Domain
	if domain == "" {
		domain = "general"
	}

	ctrl := controller.New(transcript.ID, topic, domain, p.cfg, p.refiner)

	for _, msg := range transcript.Messages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis canceled: %w", err)
		}
		ctrl.Process(ctx, msg.Text, msg.Speaker)
	}

	rep := ctrl.Report(topic, domain)
	return &AnalysisResult{Report: &rep}, nil
}

// RenderReport renders the report to the specified outputs and prints a
// summary to stdout.
func (p *Pipeline) RenderReport(rep *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(rep)
	return nil
}
