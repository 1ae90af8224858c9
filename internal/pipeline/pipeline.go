// Package pipeline composes ingestion, scoring, evidence and rewriting into
// the end-to-end analysis flow shared by the CLI and the server.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/evidence"
	"github.com/jonathan/resume-tailor/internal/guard"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pii"
	"github.com/jonathan/resume-tailor/internal/render"
	"github.com/jonathan/resume-tailor/internal/rewrite"
	"github.com/jonathan/resume-tailor/internal/semantic"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Pipeline holds the assembled components for analyzing a resume against a
// job description. It is safe for concurrent use.
type Pipeline struct {
	logger   *zap.Logger
	tracer   *observability.Tracer
	metrics  *observability.Metrics
	store    *taxonomy.Store
	engine   *matching.Engine
	agent    *rewrite.Agent
	chain    *llm.Chain
	embedder semantic.Embedder
	database *db.DB
}

// New assembles a pipeline from configuration. The metrics registry may be
// nil for callers that do not expose a metrics endpoint. A database failure
// is downgraded to a warning; everything else is fatal.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Pipeline, error) {
	tracer := observability.NewTracer(logger)

	table, err := taxonomy.LoadDir(cfg.TaxonomyPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	store := taxonomy.NewStore(table)
	logger.Info("taxonomy loaded",
		zap.String("dir", cfg.TaxonomyPath()),
		zap.Int("skills", table.Len()))

	chain, err := llm.NewChainFromConfig(ctx, cfg.LLMConfig(), tracer, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider chain: %w", err)
	}

	var embedder semantic.Embedder
	if cfg.APIKey != "" {
		embedder, err = semantic.NewGeminiEmbedder(ctx, cfg.APIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("failed to build embedder: %w", err)
		}
	} else {
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = llm.DefaultOllamaBaseURL
		}
		embedder = semantic.NewOllamaEmbedder(baseURL, "")
	}
	cached := semantic.NewCachingEmbedder(embedder)

	oracle := semantic.NewOracle(cached, chain, tracer, metrics)
	engine := matching.NewEngine(store, oracle, tracer)
	if err := engine.UpdateWeights(cfg.MatchWeights()); err != nil {
		return nil, fmt.Errorf("invalid configured weights: %w", err)
	}

	factGuard := guard.New(oracle, guard.DefaultPolicy())
	agent := rewrite.NewAgent(chain, factGuard, oracle, tracer, metrics, rewrite.DefaultPolicy())

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable, continuing without persistence", zap.Error(err))
			database = nil
		}
	}

	return &Pipeline{
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
		store:    store,
		engine:   engine,
		agent:    agent,
		chain:    chain,
		embedder: cached,
		database: database,
	}, nil
}

// Engine exposes the scoring engine for weight inspection and updates.
func (p *Pipeline) Engine() *matching.Engine {
	return p.engine
}

// Store exposes the taxonomy store for reloads.
func (p *Pipeline) Store() *taxonomy.Store {
	return p.store
}

// DB returns the database handle, or nil when persistence is disabled.
func (p *Pipeline) DB() *db.DB {
	return p.database
}

// Close releases provider clients and the database pool.
func (p *Pipeline) Close() {
	if p.chain != nil {
		_ = p.chain.Close()
	}
	if p.embedder != nil {
		_ = p.embedder.Close()
	}
	if p.database != nil {
		p.database.Close()
	}
}

// AnalysisResult is the output of one analyze pass.
type AnalysisResult struct {
	RunID    *uuid.UUID           `json:"run_id,omitempty"`
	Match    *types.MatchResult   `json:"match"`
	Evidence []types.EvidenceItem `json:"evidence"`
	PIITypes []string             `json:"pii_types,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Analyze scores a resume against a job description and builds the evidence
// trail. When persistence is configured the run and its artifacts are
// stored; storage failures degrade to warnings.
func (p *Pipeline) Analyze(ctx context.Context, resume, jd *types.SectionedDocument, jobURL string) (*AnalysisResult, error) {
	start := time.Now()

	match, err := p.engine.ComputeMatchScore(ctx, resume, jd)
	if err != nil {
		p.metrics.ObserveAnalyze("error", time.Since(start))
		return nil, err
	}
	items := evidence.Build(resume, jd, match)

	result := &AnalysisResult{
		Match:    match,
		Evidence: items,
		PIITypes: piiTypes(resume.RawText),
	}
	result.Warnings = append(result.Warnings, resume.LayoutWarnings...)
	result.Warnings = append(result.Warnings, jd.LayoutWarnings...)

	if len(result.PIITypes) > 0 {
		p.logger.Info("pii detected in resume", zap.Strings("types", result.PIITypes))
	}

	if p.database != nil {
		if runID, err := p.persistAnalysis(ctx, resume, jd, jobURL, result); err != nil {
			p.logger.Warn("failed to persist analysis run", zap.Error(err))
		} else {
			result.RunID = &runID
		}
	}

	p.metrics.ObserveAnalyze("ok", time.Since(start))
	p.logger.Info("analysis complete",
		zap.Float64("match_score", match.MatchScore),
		zap.Int("evidence_items", len(items)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// SuggestResult pairs accepted suggestions with the penalty-adjusted match.
type SuggestResult struct {
	Suggestions       []types.Suggestion `json:"suggestions"`
	Match             *types.MatchResult `json:"match"`
	ContradictionHits int                `json:"contradiction_hits"`
}

// Suggest generates validated rewrite suggestions and applies the
// contradiction penalty discovered during validation to the match score.
// Pass uuid.Nil as runID to skip persistence.
func (p *Pipeline) Suggest(ctx context.Context, resume, jd *types.SectionedDocument, match *types.MatchResult, runID uuid.UUID) (*SuggestResult, error) {
	generated, err := p.agent.Generate(ctx, resume, jd, match)
	if err != nil {
		return nil, err
	}

	adjusted := applyPenalty(match, generated.Penalty)
	result := &SuggestResult{
		Suggestions:       generated.Suggestions,
		Match:             adjusted,
		ContradictionHits: generated.ContradictionHits,
	}

	if p.database != nil && runID != uuid.Nil {
		suggestions := generated.Suggestions
		if suggestions == nil {
			suggestions = []types.Suggestion{}
		}
		if err := p.database.SaveArtifact(ctx, runID, db.StepSuggestions, suggestions); err != nil {
			p.logger.Warn("failed to persist suggestions", zap.Error(err))
		}
		if err := p.database.SaveArtifact(ctx, runID, db.StepMatchResult, adjusted); err != nil {
			p.logger.Warn("failed to persist adjusted match", zap.Error(err))
		}
	}

	return result, nil
}

// Export renders the resume with suggestions applied as plain ATS text.
// Pass uuid.Nil as runID to skip persistence.
func (p *Pipeline) Export(ctx context.Context, resume *types.SectionedDocument, suggestions []types.Suggestion, runID uuid.UUID) string {
	text := render.ATSText(resume, suggestions)
	if p.database != nil && runID != uuid.Nil {
		if err := p.database.SaveTextArtifact(ctx, runID, db.StepATSExport, text); err != nil {
			p.logger.Warn("failed to persist export", zap.Error(err))
		}
	}
	return text
}

// persistAnalysis stores the run record and its artifacts.
func (p *Pipeline) persistAnalysis(ctx context.Context, resume, jd *types.SectionedDocument, jobURL string, result *AnalysisResult) (uuid.UUID, error) {
	runID, err := p.database.CreateRun(ctx, jobTitle(jd), jobURL)
	if err != nil {
		return uuid.Nil, err
	}

	_ = p.database.SaveArtifact(ctx, runID, db.StepResume, resume)
	_ = p.database.SaveArtifact(ctx, runID, db.StepJobPosting, jd)
	_ = p.database.SaveArtifact(ctx, runID, db.StepMatchResult, result.Match)
	_ = p.database.SaveArtifact(ctx, runID, db.StepEvidence, result.Evidence)

	score := result.Match.MatchScore
	if err := p.database.CompleteRun(ctx, runID, db.StatusCompleted, &score); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

// applyPenalty returns a copy of match with the contradiction penalty set
// and the final score adjusted on the percentage scale, clamped to [0,100].
func applyPenalty(match *types.MatchResult, penalty float64) *types.MatchResult {
	adjusted := *match
	adjusted.Scores.ContradictionPenalty = penalty
	score := match.MatchScore + 100*penalty
	adjusted.MatchScore = math.Round(math.Max(0, math.Min(100, score))*100) / 100
	return &adjusted
}

// piiTypes returns the distinct entity types detected in text, in first
// occurrence order.
func piiTypes(text string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, entity := range pii.Detect(text) {
		if !seen[entity.EntityType] {
			seen[entity.EntityType] = true
			found = append(found, entity.EntityType)
		}
	}
	return found
}

// jobTitle derives a short run label from the job posting's first content
// line.
func jobTitle(jd *types.SectionedDocument) string {
	const maxTitleLength = 80
	for _, item := range jd.ContentItems() {
		if item == "" {
			continue
		}
		if len(item) > maxTitleLength {
			return item[:maxTitleLength]
		}
		return item
	}
	return "untitled"
}
