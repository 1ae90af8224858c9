package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/guard"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/rewrite"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// flatOracle scores identical texts 1.0 and everything else a constant.
type flatOracle struct{}

func (flatOracle) Similarity(_ context.Context, a, b string) (float64, error) {
	if a == b {
		return 1.0, nil
	}
	return 0.2, nil
}

// nullGenerator always reports an ungroundable target.
type nullGenerator struct{}

func (nullGenerator) GenerateJSON(context.Context, string, llm.Options) (string, error) {
	return "null", nil
}

// passingChecker never finds contradictions.
type passingChecker struct{}

func (passingChecker) CheckAgainstFacts(context.Context, []types.ResumeFact, string) (guard.CheckResult, error) {
	return guard.CheckResult{}, nil
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	table := taxonomy.NewTable([]taxonomy.SkillRecord{
		{ID: "S1", Name: "go", Category: types.CategoryTechnical},
		{ID: "S2", Name: "docker", Category: types.CategoryTechnical},
	}, "test")
	store := taxonomy.NewStore(table)
	engine := matching.NewEngine(store, flatOracle{}, nil)
	agent := rewrite.NewAgent(nullGenerator{}, passingChecker{}, nil, nil, nil, rewrite.DefaultPolicy())

	return &Pipeline{
		logger: zap.NewNop(),
		store:  store,
		engine: engine,
		agent:  agent,
	}
}

func sampleResume() *types.SectionedDocument {
	return &types.SectionedDocument{
		RawText: "Built Go services for 5 years. Email jane@example.com.",
		Sections: []types.Section{
			{Title: "experience", Content: []string{"Built Go services for 5 years."}},
		},
	}
}

func sampleJD() *types.SectionedDocument {
	return &types.SectionedDocument{
		RawText: "Senior engineer with Go and Docker.",
		Sections: []types.Section{
			{Title: "overview", Content: []string{"Senior engineer with Go and Docker."}},
		},
		Requirements: []string{"Ship production Go services"},
	}
}

func TestAnalyze_ProducesScoreAndEvidence(t *testing.T) {
	p := testPipeline(t)

	result, err := p.Analyze(context.Background(), sampleResume(), sampleJD(), "")

	require.NoError(t, err)
	require.NotNil(t, result.Match)
	assert.Greater(t, result.Match.MatchScore, 0.0)
	assert.Nil(t, result.RunID, "no database means no run id")
	assert.Contains(t, result.PIITypes, "EMAIL_ADDRESS")
}

func TestSuggest_NoProposalsNoPenalty(t *testing.T) {
	p := testPipeline(t)
	analysis, err := p.Analyze(context.Background(), sampleResume(), sampleJD(), "")
	require.NoError(t, err)

	suggested, err := p.Suggest(context.Background(), sampleResume(), sampleJD(), analysis.Match, uuid.Nil)

	require.NoError(t, err)
	assert.Empty(t, suggested.Suggestions)
	assert.Zero(t, suggested.ContradictionHits)
	assert.Equal(t, analysis.Match.MatchScore, suggested.Match.MatchScore)
}

func TestApplyPenalty(t *testing.T) {
	match := &types.MatchResult{MatchScore: 62.5}

	adjusted := applyPenalty(match, -0.10)

	assert.Equal(t, 52.5, adjusted.MatchScore)
	assert.Equal(t, -0.10, adjusted.Scores.ContradictionPenalty)
	assert.Equal(t, 62.5, match.MatchScore, "input match is not mutated")
}

func TestApplyPenalty_ClampsAtZero(t *testing.T) {
	match := &types.MatchResult{MatchScore: 3.0}

	adjusted := applyPenalty(match, -0.25)

	assert.Equal(t, 0.0, adjusted.MatchScore)
}

func TestExport_RendersATSText(t *testing.T) {
	p := testPipeline(t)

	text := p.Export(context.Background(), sampleResume(), nil, uuid.Nil)

	assert.Contains(t, text, "EXPERIENCE")
	assert.Contains(t, text, "Built Go services for 5 years.")
}

func TestJobTitle(t *testing.T) {
	assert.Equal(t, "Senior engineer with Go and Docker.", jobTitle(sampleJD()))
	assert.Equal(t, "untitled", jobTitle(&types.SectionedDocument{}))
}
