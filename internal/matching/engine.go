// Package matching scores a resume against a job description across four
// weighted signals: exact skill overlap, semantic fit, seniority fit, and
// recency.
package matching

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// evidenceThreshold is the minimum best-section similarity for a requirement
// to be recorded as semantic evidence.
const evidenceThreshold = 0.5

// maxEvidenceTextLength bounds the quoted section text in evidence records.
const maxEvidenceTextLength = 200

// SimilarityOracle is the slice of the semantic oracle the engine needs.
type SimilarityOracle interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Engine computes weighted match scores. Weights are guarded for concurrent
// reads against configuration updates; everything else is per-request state.
type Engine struct {
	store  *taxonomy.Store
	oracle SimilarityOracle
	tracer *observability.Tracer
	now    func() time.Time

	mu      sync.RWMutex
	weights Weights
}

// NewEngine creates a scoring engine with default weights.
func NewEngine(store *taxonomy.Store, oracle SimilarityOracle, tracer *observability.Tracer) *Engine {
	return &Engine{
		store:   store,
		oracle:  oracle,
		tracer:  tracer,
		now:     time.Now,
		weights: DefaultWeights(),
	}
}

// Weights returns the current signal weights.
func (e *Engine) Weights() Weights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights
}

// UpdateWeights replaces the signal weights. Invalid weights are rejected
// without mutating the current configuration.
func (e *Engine) UpdateWeights(weights Weights) error {
	if err := weights.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.weights = weights
	e.mu.Unlock()
	return nil
}

// ComputeMatchScore scores a resume against a job description. The four
// sub-scores are independent and computed concurrently; only semantic fit
// crosses a process boundary.
func (e *Engine) ComputeMatchScore(ctx context.Context, resume, jd *types.SectionedDocument) (*types.MatchResult, error) {
	table := e.store.Table()
	resumeSkills := table.Extract(resume.RawText, taxonomy.DefaultMinConfidence)
	jdSkills := table.Extract(jd.RawText, taxonomy.DefaultMinConfidence)

	overlap := taxonomy.ComputeSkillOverlap(resumeSkills.All, jdSkills.All)

	var (
		semanticScore float64
		evidence      []types.SemanticEvidence
		seniorityScr  float64
		recencyScr    float64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		semanticScore, evidence, err = e.computeSemanticFit(groupCtx, resume.Sections, jd.Requirements)
		return err
	})
	group.Go(func() error {
		seniorityScr = seniorityFit(resume.RawText, jd.RawText)
		return nil
	})
	group.Go(func() error {
		recencyScr = recencyScore(resume.RawText, e.now())
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute match score: %w", err)
	}

	weights := e.Weights()
	matchScore := 100 * (weights.SkillsExact*overlap.OverlapScore +
		weights.SemanticFit*semanticScore +
		weights.SeniorityFit*seniorityScr +
		weights.Recency*recencyScr)

	return &types.MatchResult{
		MatchScore: round2(matchScore),
		Scores: types.ScoreBreakdown{
			SkillsExact:  round2(overlap.OverlapScore),
			SemanticFit:  round2(semanticScore),
			SeniorityFit: round2(seniorityScr),
			Recency:      round2(recencyScr),
		},
		SkillOverlap:     overlap,
		SemanticEvidence: evidence,
		ResumeSkills:     resumeSkills,
		JDSkills:         jdSkills,
	}, nil
}

// computeSemanticFit finds the best-matching resume section for every job
// requirement and averages the best similarities. Requirements above the
// evidence threshold are recorded with their matching section.
func (e *Engine) computeSemanticFit(ctx context.Context, sections []types.Section, requirements []string) (float64, []types.SemanticEvidence, error) {
	if len(requirements) == 0 {
		return 1.0, nil, nil
	}

	var evidence []types.SemanticEvidence
	total := 0.0

	for _, requirement := range requirements {
		best := types.SemanticEvidence{Requirement: requirement}

		for _, section := range sections {
			sectionText := section.Text()
			if sectionText == "" {
				continue
			}

			similarity, err := e.oracle.Similarity(ctx, requirement, sectionText)
			if err != nil {
				return 0, nil, fmt.Errorf("semantic fit failed for requirement %q: %w", requirement, err)
			}

			if similarity > best.Similarity {
				best.Similarity = similarity
				best.MatchedSection = section.Title
				best.MatchedText = truncate(sectionText, maxEvidenceTextLength)
			}
		}

		total += best.Similarity

		if best.Similarity > evidenceThreshold {
			best.Similarity = round3(best.Similarity)
			evidence = append(evidence, best)
		}
	}

	return total / float64(len(requirements)), evidence, nil
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
