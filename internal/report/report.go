// Package report renders conversation analysis reports to JSON,
// Markdown, and a stdout summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parleyhq/parley/internal/model"
)

// Renderer writes reports in the supported output formats
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer carries tool attribution
// in Markdown output and can be disabled.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation Analysis: %s\n\n", report.Topic)
	fmt.Fprintf(&b, "- **Conversation:** %s\n", report.ConversationID)
	fmt.Fprintf(&b, "- **Domain:** %s\n", report.Domain)
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Messages:** %d\n\n", report.Messages)

	b.WriteString("## Outcome\n\n")
	fmt.Fprintf(&b, "- **Final stage:** %s\n", report.FinalStage)
	if report.FinalContinue {
		b.WriteString("- **Recommendation:** continue\n")
	} else {
		b.WriteString("- **Recommendation:** stop\n")
	}
	fmt.Fprintf(&b, "- **Reason:** %s\n\n", report.FinalReason)

	b.WriteString("## Progress\n\n")
	p := report.Progress
	fmt.Fprintf(&b, "- **Rounds:** %d\n", p.Round)
	fmt.Fprintf(&b, "- **Claims:** %d total, %d settled, %d active\n",
		p.TotalClaims, p.SettledClaims, p.ActiveClaims)
	fmt.Fprintf(&b, "- **Progress:** %.0f%%\n", p.ProgressPercentage)
	fmt.Fprintf(&b, "- **Resolution points:** %d\n\n", p.ResolutionPoints)

	if len(report.Verdicts) > 0 {
		b.WriteString("## Rounds\n\n")
		b.WriteString("| Round | Speaker | Agreement | Topic | Stage | Continue |\n")
		b.WriteString("|-------|---------|-----------|-------|-------|----------|\n")
		for _, v := range report.Verdicts {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %v |\n",
				v.Round, v.Speaker, v.Agreement.Level, v.Topic.Relevance,
				v.Conclusion.Stage, v.Continue)
		}
		b.WriteString("\n")
	}

	if claims := report.Structure.Claims; len(claims) > 0 {
		b.WriteString("## Claims\n\n")
		b.WriteString("| Round | Speaker | Status | Claim |\n")
		b.WriteString("|-------|---------|--------|-------|\n")
		for _, c := range claims {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				c.RoundIntroduced, c.Speaker, c.Status, truncate(c.Text, 80))
		}
		b.WriteString("\n")
	}

	if cited := collectSources(report); len(cited) > 0 {
		b.WriteString("## Cited Sources\n\n")
		b.WriteString("| Source | Tier | Credibility |\n")
		b.WriteString("|--------|------|-------------|\n")
		for _, s := range cited {
			fmt.Fprintf(&b, "| %s | %s | %.2f |\n", s.URL, s.Tier, s.CredibilityScore)
		}
		b.WriteString("\n")
		for _, s := range cited {
			for _, w := range s.Warnings {
				fmt.Fprintf(&b, "- ⚠️ %s: %s\n", s.URL, w)
			}
		}
		b.WriteString("\n")
	}

	if warnings := collectWarnings(report); len(warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- [%s] %s\n", w.Kind, w.Description)
		}
		b.WriteString("\n")
	}

	if interventions := collectInterventions(report); len(interventions) > 0 {
		b.WriteString("## Topic Interventions\n\n")
		for _, i := range interventions {
			fmt.Fprintf(&b, "- Round %d:\n\n```\n%s\n```\n\n", i.round, i.text)
		}
	}

	g := report.Guidance
	if len(g.Warnings) > 0 || len(g.Suggestions) > 0 || len(g.NextSteps) > 0 {
		b.WriteString("## Guidance\n\n")
		for _, w := range g.Warnings {
			fmt.Fprintf(&b, "- ⚠️ %s\n", w)
		}
		for _, s := range g.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		for _, n := range g.NextSteps {
			fmt.Fprintf(&b, "- Next: %s\n", n)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by Parley. Advisory analysis only; the caller decides how to act on it.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a short report summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", report.Topic)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Messages:    %d\n", report.Messages)
	fmt.Printf("  Final stage: %s\n", report.FinalStage)
	if report.FinalContinue {
		fmt.Printf("  Decision:    continue\n")
	} else {
		fmt.Printf("  Decision:    stop\n")
	}
	fmt.Printf("  Reason:      %s\n", report.FinalReason)
	fmt.Printf("  Claims:      %d total, %d settled (%.0f%%)\n",
		report.Progress.TotalClaims, report.Progress.SettledClaims,
		report.Progress.ProgressPercentage)
	if warnings := collectWarnings(report); len(warnings) > 0 {
		fmt.Printf("  Warnings:    %d\n", len(warnings))
	}
	fmt.Println()
}

func collectSources(report *model.Report) []model.SourceQuality {
	var all []model.SourceQuality
	for _, v := range report.Verdicts {
		all = append(all, v.Evidence.Sources...)
	}
	return all
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func collectWarnings(report *model.Report) []model.WarningRecord {
	var all []model.WarningRecord
	for _, v := range report.Verdicts {
		all = append(all, v.Warnings...)
	}
	return all
}

type interventionNote struct {
	round int
	text  string
}

func collectInterventions(report *model.Report) []interventionNote {
	var notes []interventionNote
	for _, v := range report.Verdicts {
		if v.Intervention != "" {
			notes = append(notes, interventionNote{round: v.Round, text: v.Intervention})
		}
	}
	return notes
}
