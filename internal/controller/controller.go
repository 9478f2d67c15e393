// Package controller composes the analytic components into the
// per-message decision loop for one conversation.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/parleyhq/parley/internal/agreement"
	"github.com/parleyhq/parley/internal/coherence"
	"github.com/parleyhq/parley/internal/conclusion"
	"github.com/parleyhq/parley/internal/evidence"
	"github.com/parleyhq/parley/internal/ledger"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/refine"
	"github.com/parleyhq/parley/internal/sources"
)

// Controller runs the full analysis sequence for one conversation.
// All component state is private to the conversation; a mutex
// serializes Process calls so interleaved feeds stay consistent.
type Controller struct {
	mu sync.Mutex

	id    string
	topic string

	ledger     *ledger.Ledger
	classifier *agreement.Classifier
	monitor    *coherence.Monitor
	detector   *conclusion.Detector
	validator  *evidence.Validator
	verifier   *sources.Verifier
	refiner    refine.Refiner

	concludeConfidence float64
	verdicts           []model.Verdict
}

// New creates a controller for one conversation. The refiner may be
// nil, in which case confidence scores pass through unchanged.
func New(conversationID, topic, domain string, cfg *model.Config, refiner refine.Refiner) *Controller {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if refiner == nil {
		refiner = refine.Identity{}
	}

	concludeConfidence := cfg.Analysis.ConcludeConfidence
	if concludeConfidence <= 0 {
		concludeConfidence = 0.8
	}

	return &Controller{
		id:                 conversationID,
		topic:              topic,
		ledger:             ledger.New(cfg.Analysis),
		classifier:         agreement.NewClassifier(),
		monitor:            coherence.New(topic, domain, cfg.Topics, cfg.Analysis.DriftThreshold),
		detector:           conclusion.New(),
		validator:          evidence.New(domain, cfg.Topics, cfg.Analysis.KnowledgeCutoffYear),
		verifier:           sources.New(cfg.Sources),
		refiner:            refiner,
		concludeConfidence: concludeConfidence,
	}
}

// Process analyzes one inbound message and returns the combined
// verdict. Components run in a fixed order: ledger bookkeeping first,
// then the stateless classifiers, so every verdict reflects the
// message it was produced for.
func (c *Controller) Process(ctx context.Context, message, speaker string) model.Verdict {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ledger.AdvanceRound()
	round := c.ledger.Round()

	// Respond to every claim currently on the books before extracting
	// new ones, so a message never responds to itself.
	priorClaims := c.ledger.ClaimIDs()
	c.ledger.AnalyzeResponses(message, speaker, priorClaims)
	c.ledger.ExtractClaims(message, speaker)
	rehashWarnings := c.ledger.DetectRehashing(message)

	topicAnalysis := c.monitor.Analyze(message, speaker)

	c.detector.Observe(message, speaker, round)
	conclusionAnalysis := c.detector.ShouldConclude()

	agreementAnalysis := c.classifier.Analyze(message)

	evidenceReport := c.validator.ValidateMessage(message, c.topic)
	evidenceReport.Sources = c.verifier.AssessMessage(message)

	conclusionAnalysis.Confidence = c.refineConfidence(ctx, conclusionAnalysis)

	verdict := model.Verdict{
		ConversationID: c.id,
		Round:          round,
		Speaker:        speaker,
		Agreement:      agreementAnalysis,
		Topic:          topicAnalysis,
		Conclusion:     conclusionAnalysis,
		Evidence:       evidenceReport,
		RehashWarnings: rehashWarnings,
		Warnings:       recordWarnings(rehashWarnings),
		Guidance:       c.ledger.Guidance(),
		Progress:       c.ledger.ProgressSummary(),
	}

	if _, intervention := c.monitor.ShouldIntervene(); intervention != "" {
		verdict.Intervention = intervention
	}

	verdict.Continue, verdict.Reason = c.decide(agreementAnalysis, conclusionAnalysis)

	c.verdicts = append(c.verdicts, verdict)
	return verdict
}

// decide merges the agreement and conclusion signals into the single
// continue/stop recommendation. Either component can stop the
// conversation; both must agree to continue.
func (c *Controller) decide(agr model.AgreementAnalysis, conc model.ConclusionAnalysis) (bool, string) {
	if !agr.ContinueDebate {
		return false, "agreement reached - " + agr.Explanation
	}
	if conc.ShouldConclude && conc.Confidence >= c.concludeConfidence {
		return false, "conclusion detected - " + conc.Reason
	}
	return true, "debate continues - " + agr.Explanation
}

// refineConfidence passes the conclusion confidence through the
// configured refiner. Refiner failure falls back to the lexical score.
func (c *Controller) refineConfidence(ctx context.Context, conc model.ConclusionAnalysis) float64 {
	refined, err := c.refiner.Refine(ctx, refine.Input{
		Score:  conc.Confidence,
		Stage:  conc.Stage.String(),
		Reason: conc.Reason,
		Topic:  c.topic,
	})
	if err != nil {
		return conc.Confidence
	}
	return refined
}

func recordWarnings(warnings []model.RehashWarning) []model.WarningRecord {
	if len(warnings) == 0 {
		return nil
	}
	records := make([]model.WarningRecord, 0, len(warnings))
	for _, w := range warnings {
		records = append(records, model.WarningRecord{
			Kind:        w.Kind(),
			Description: w.Describe(),
		})
	}
	return records
}

// Resolve records an externally adjudicated resolution point
func (c *Controller) Resolve(description string, typ model.ResolutionType,
	positionA, positionB string, agreed bool, evidenceBasis []string) string {

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.CreateResolutionPoint(description, typ, positionA, positionB, agreed, evidenceBasis)
}

// Export returns the full debate structure tracked so far
func (c *Controller) Export() model.DebateStructure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.ExportStructure()
}

// Report assembles the final conversation report from the verdicts
// produced so far.
func (c *Controller) Report(topic, domain string) model.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := model.Report{
		ConversationID: c.id,
		Topic:          topic,
		Domain:         domain,
		AnalyzedAt:     time.Now().UTC(),
		Messages:       len(c.verdicts),
		Verdicts:       c.verdicts,
		Progress:       c.ledger.ProgressSummary(),
		Guidance:       c.ledger.Guidance(),
		Structure:      c.ledger.ExportStructure(),
	}

	if len(c.verdicts) > 0 {
		last := c.verdicts[len(c.verdicts)-1]
		report.FinalStage = last.Conclusion.Stage
		report.FinalContinue = last.Continue
		report.FinalReason = last.Reason
	}
	return report
}

// TopicSummary exposes the monitor's evolution summary
func (c *Controller) TopicSummary() coherence.EvolutionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitor.EvolutionSummary()
}

// String identifies the controller in logs
func (c *Controller) String() string {
	return fmt.Sprintf("controller(%s, %q)", c.id, strings.ToLower(c.topic))
}
