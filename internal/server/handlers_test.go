package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appconfig "github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/matching"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/render"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
	"github.com/jonathan/resume-tailor/internal/types"
)

// stubOracle scores identical texts 1.0 and everything else a constant.
type stubOracle struct{}

func (stubOracle) Similarity(_ context.Context, a, b string) (float64, error) {
	if a == b {
		return 1.0, nil
	}
	return 0.3, nil
}

// fakePipeline satisfies Analyzer with canned results and a real engine.
type fakePipeline struct {
	engine      *matching.Engine
	store       *taxonomy.Store
	analysis    *pipeline.AnalysisResult
	suggestions []types.Suggestion
	analyzeErr  error
}

func newFakePipeline() *fakePipeline {
	table := taxonomy.NewTable([]taxonomy.SkillRecord{
		{ID: "S1", Name: "go", Category: types.CategoryTechnical},
	}, "test")
	store := taxonomy.NewStore(table)
	return &fakePipeline{
		engine: matching.NewEngine(store, stubOracle{}, nil),
		store:  store,
		analysis: &pipeline.AnalysisResult{
			Match: &types.MatchResult{MatchScore: 55.5},
		},
	}
}

func (f *fakePipeline) Analyze(context.Context, *types.SectionedDocument, *types.SectionedDocument, string) (*pipeline.AnalysisResult, error) {
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analysis, nil
}

func (f *fakePipeline) Suggest(_ context.Context, _, _ *types.SectionedDocument, match *types.MatchResult, _ uuid.UUID) (*pipeline.SuggestResult, error) {
	return &pipeline.SuggestResult{Suggestions: f.suggestions, Match: match}, nil
}

func (f *fakePipeline) Export(_ context.Context, resume *types.SectionedDocument, suggestions []types.Suggestion, _ uuid.UUID) string {
	return render.ATSText(resume, suggestions)
}

func (f *fakePipeline) Engine() *matching.Engine { return f.engine }
func (f *fakePipeline) Store() *taxonomy.Store   { return f.store }
func (f *fakePipeline) DB() *db.DB               { return nil }

func newTestServer(t *testing.T, fake *fakePipeline, cfg Config) http.Handler {
	t.Helper()
	return New(fake, nil, zap.NewNop(), cfg).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_OK(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	rec := postJSON(t, handler, "/analyze", map[string]any{
		"resume_text": "EXPERIENCE\nBuilt Go services.",
		"job_text":    "We need Go.",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 55.5, resp.Match.MatchScore)
}

func TestAnalyze_MissingResume(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	rec := postJSON(t, handler, "/analyze", map[string]any{"job_text": "We need Go."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ResumeText")
}

func TestAnalyze_JobTextAndURLExclusive(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	rec := postJSON(t, handler, "/analyze", map[string]any{
		"resume_text": "Built Go services.",
		"job_text":    "We need Go.",
		"job_url":     "https://example.com/job",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_WithSuggestions(t *testing.T) {
	fake := newFakePipeline()
	fake.suggestions = []types.Suggestion{{Before: "Built", After: "Engineered", Confidence: 0.8}}
	handler := newTestServer(t, fake, Config{})

	rec := postJSON(t, handler, "/analyze", map[string]any{
		"resume_text": "Built Go services.",
		"job_text":    "We need Go.",
		"suggest":     true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Engineered", resp.Suggestions[0].After)
}

func TestExport_InlineResume(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	rec := postJSON(t, handler, "/export", map[string]any{
		"resume_text": "EXPERIENCE\nBuilt Go services.",
		"suggestions": []types.Suggestion{{Before: "Built", After: "Engineered"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Engineered Go services.")
}

func TestRuns_PersistenceDisabled(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWeights_GetAndUpdate(t *testing.T) {
	fake := newFakePipeline()
	handler := newTestServer(t, fake, Config{})

	req := httptest.NewRequest(http.MethodGet, "/weights", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	update := httptest.NewRequest(http.MethodPut, "/weights",
		bytes.NewReader([]byte(`{"skills_exact":0.5,"semantic_fit":0.3,"seniority_fit":0.1,"recency":0.1}`)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.5, fake.engine.Weights().SkillsExact)
}

func TestWeights_RejectsInvalidSum(t *testing.T) {
	fake := newFakePipeline()
	handler := newTestServer(t, fake, Config{})

	update := httptest.NewRequest(http.MethodPut, "/weights",
		bytes.NewReader([]byte(`{"skills_exact":0.9,"semantic_fit":0.9,"seniority_fit":0.1,"recency":0.1}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, update)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, matching.DefaultWeights(), fake.engine.Weights(), "rejected update must not mutate weights")
}

func TestReloadTaxonomy(t *testing.T) {
	dir := t.TempDir()
	skills := "id,name,type\nS1,go,technical\nS2,docker,technical\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.csv"), []byte(skills), 0644))
	fake := newFakePipeline()
	handler := newTestServer(t, fake, Config{TaxonomyDir: dir})

	rec := postJSON(t, handler, "/taxonomy/reload", map[string]any{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skills":2`)
	assert.Equal(t, 2, fake.store.Table().Len())
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, newFakePipeline(), Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	jwtCfg := &appconfig.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	handler := newTestServer(t, newFakePipeline(), Config{JWT: jwtCfg})

	req := httptest.NewRequest(http.MethodGet, "/weights", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	jwtCfg := &appconfig.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	handler := newTestServer(t, newFakePipeline(), Config{JWT: jwtCfg})

	token, err := NewJWTService(jwtCfg).GenerateToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/weights", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_OpenWithAuthEnabled(t *testing.T) {
	jwtCfg := &appconfig.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	handler := newTestServer(t, newFakePipeline(), Config{JWT: jwtCfg})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
