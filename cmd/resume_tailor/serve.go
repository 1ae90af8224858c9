package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP server exposing the analysis pipeline: POST /analyze,
POST /suggest, POST /export, run persistence endpoints, and live weight
and taxonomy management.

Set JWT_SECRET to require bearer-token authentication; leave it unset to
run the server open (suitable for local use only).`,
	RunE: runServeCmd,
}

var (
	serveConfigPath  string
	serveAddr        string
	serveAPIKey      string
	serveDatabaseURL string
	serveTaxonomyDir string
	serveVerbose     bool
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCommand.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCommand.Flags().StringVar(&serveTaxonomyDir, "taxonomy-dir", "", "Directory holding skills.csv and skill_synonyms.csv")
	serveCommand.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("addr") || cfg.ListenAddr == "" {
		cfg.ListenAddr = serveAddr
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("taxonomy-dir") {
		cfg.TaxonomyDir = serveTaxonomyDir
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}
	cfg.ApplyEnvironment()

	logger, err := observability.NewLogger(true, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}
	if jwtCfg == nil {
		logger.Warn("JWT_SECRET not set, running without authentication")
	}

	metrics := observability.NewMetrics()

	p, err := pipeline.New(ctx, &cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer p.Close()

	srv := server.New(p, metrics, logger, server.Config{
		Addr:        cfg.ListenAddr,
		JWT:         jwtCfg,
		TaxonomyDir: cfg.TaxonomyPath(),
	})
	return srv.Start()
}
