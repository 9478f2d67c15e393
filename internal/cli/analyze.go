package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parleyhq/parley/internal/ingest"
	"github.com/parleyhq/parley/internal/model"
	"github.com/parleyhq/parley/internal/pipeline"
)

var (
	outJSON         string
	outMD           string
	timeout         time.Duration
	topicOverride   string
	domainOverride  string
	cutoffYear      int
	noFooter        bool
	refinerEnabled  bool
	refinerProvider string
	refinerModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript>",
	Short: "Analyze a recorded conversation and generate a quality report",
	Long: `Analyze replays a recorded agent conversation to:
- Track claims across rounds and flag rehashed arguments
- Classify each message's agreement level
- Measure topic drift against the seeded topic
- Validate citations and score evidence quality
- Detect natural or circular conclusion

Transcripts may be YAML, JSON, or HTML chat exports.

Example:
  parley analyze debate.yaml
  parley analyze debate.json --json report.json --md report.md
  parley analyze export.html --topic "machine consciousness" --domain ai_consciousness`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&topicOverride, "topic", "", "override the transcript's topic")
	analyzeCmd.Flags().StringVar(&domainOverride, "domain", "", "override the transcript's keyword domain")
	analyzeCmd.Flags().IntVar(&cutoffYear, "cutoff-year", 0, "override the knowledge cutoff year for citation checks")

	// Refiner flags
	analyzeCmd.Flags().BoolVar(&refinerEnabled, "refine", false, "enable model-backed confidence refinement")
	analyzeCmd.Flags().StringVar(&refinerProvider, "refine-provider", "openai", "refiner provider")
	analyzeCmd.Flags().StringVar(&refinerModel, "refine-model", "gpt-4o-mini", "refiner model name")
}

// loadConfig builds the effective configuration: defaults, then the
// config file and environment via viper, then command flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// configureRefiner applies the refiner flags and pulls the API key from
// the environment.
func configureRefiner(cfg *model.Config) error {
	if !refinerEnabled {
		return nil
	}

	cfg.Refiner.Provider = refinerProvider
	cfg.Refiner.Model = refinerModel

	switch refinerProvider {
	case "openai":
		cfg.Refiner.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Refiner.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unsupported refiner provider: %s", refinerProvider)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.IncludeFooter = !noFooter
	if cutoffYear > 0 {
		cfg.Analysis.KnowledgeCutoffYear = cutoffYear
	}
	if err := configureRefiner(cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	transcript, err := ingest.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	if topicOverride != "" {
		transcript.Topic = topicOverride
	}
	if domainOverride != "" {
		transcript.Domain = domainOverride
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.AnalyzeTranscript(ctx, transcript)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	rep := result.Report

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d messages\n", rep.Messages)
		fmt.Fprintf(os.Stderr, "✓ Tracked %d claims (%d settled)\n",
			rep.Progress.TotalClaims, rep.Progress.SettledClaims)
		fmt.Fprintf(os.Stderr, "✓ Final stage: %s\n", rep.FinalStage)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(rep, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
