package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/types"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long: `Ingests a resume and a job posting, scores the match across weighted
signals, and prints the score breakdown with quoted evidence.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath  string
	analyzeResume      string
	analyzeJob         string
	analyzeJobURL      string
	analyzeAPIKey      string
	analyzeDatabaseURL string
	analyzeUseBrowser  bool
	analyzeVerbose     bool
	analyzeSuggest     bool
	analyzeOut         string
	analyzeJSON        bool
)

func init() {
	// Config file flag (processed first)
	analyzeCommand.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCommand.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to resume file (.txt or .pdf)")
	analyzeCommand.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	analyzeCommand.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	analyzeCommand.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")
	analyzeCommand.Flags().BoolVarP(&analyzeSuggest, "suggest", "s", false, "Also generate grounded rewrite suggestions")
	analyzeCommand.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the ATS text export to this file")
	analyzeCommand.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full result as JSON")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	analyzeCommand.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	analyzeCommand.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd, analyzeConfigPath)
	if err != nil {
		return err
	}

	if cfg.Resume == "" {
		return fmt.Errorf("a resume is required: use --resume or set 'resume' in the config file")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("a job posting is required: use --job or --job-url")
	}

	logger, err := observability.NewLogger(false, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.Run(ctx, pipeline.RunOptions{
		ResumePath: cfg.Resume,
		JobPath:    cfg.Job,
		JobURL:     cfg.JobURL,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
		Suggest:    analyzeSuggest,
		Export:     analyzeOut != "",
	})
	if err != nil {
		return err
	}

	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printResult(result)

	if analyzeOut != "" {
		if err := os.WriteFile(analyzeOut, []byte(result.ATSText), 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("\nWrote ATS export to %s\n", analyzeOut)
	}
	return nil
}

// loadCLIConfig merges the config file, CLI flag overrides, and environment.
func loadCLIConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Command-line args take priority; only override if explicitly set
	if cmd.Flags().Changed("resume") {
		cfg.Resume = analyzeResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = analyzeJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = analyzeJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	cfg.ApplyEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// printResult writes a human-readable summary to stdout.
func printResult(result *pipeline.RunResult) {
	fmt.Printf("\nMatch score: %.2f / 100\n", result.Match.MatchScore)
	fmt.Printf("  skills_exact:  %.2f\n", result.Match.Scores.SkillsExact)
	fmt.Printf("  semantic_fit:  %.2f\n", result.Match.Scores.SemanticFit)
	fmt.Printf("  seniority_fit: %.2f\n", result.Match.Scores.SeniorityFit)
	fmt.Printf("  recency:       %.2f\n", result.Match.Scores.Recency)
	if result.Match.Scores.ContradictionPenalty != 0 {
		fmt.Printf("  contradiction_penalty: %.2f\n", result.Match.Scores.ContradictionPenalty)
	}

	overlap := result.Match.SkillOverlap
	fmt.Printf("\nSkills: %d/%d required skills matched\n", overlap.MatchedCount, overlap.TotalRequired)
	for _, skill := range overlap.Missing {
		fmt.Printf("  missing: %s\n", skill.Name)
	}

	if len(result.Evidence) > 0 {
		fmt.Printf("\nEvidence (%d items):\n", len(result.Evidence))
		for _, item := range result.Evidence {
			switch item.Type {
			case types.EvidenceSkillMatch:
				fmt.Printf("  [skill] %s: %q\n", item.Skill, item.ResumeQuote)
			default:
				fmt.Printf("  [semantic %.3f] %q -> %q\n", item.Similarity, item.Requirement, item.ResumeSection)
			}
		}
	}

	if len(result.Suggestions) > 0 {
		fmt.Printf("\nSuggestions (%d):\n", len(result.Suggestions))
		for i, s := range result.Suggestions {
			fmt.Printf("  %d. [%s, confidence %.2f]\n     before: %s\n     after:  %s\n", i+1, s.Type, s.Confidence, s.Before, s.After)
		}
	}

	if len(result.PIITypes) > 0 {
		fmt.Printf("\nNote: resume contains %d PII type(s): %v\n", len(result.PIITypes), result.PIITypes)
	}
	if result.RunID != nil {
		fmt.Printf("\nRun saved as %s\n", result.RunID)
	}
}
