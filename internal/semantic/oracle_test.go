package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// fakeEmbedder maps texts to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return []float32{0, 0, 1}, nil
	}
	return vec, nil
}

func (f *fakeEmbedder) Close() error { return nil }

// fakeGenerator returns a canned JSON response.
type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, _ string, _ llm.Options) (string, error) {
	return f.response, f.err
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

func TestOracle_Similarity(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"built REST APIs in Go": {1, 0, 0},
		"Go backend experience": {1, 0, 0},
		"drove a forklift":      {0, 1, 0},
	}}
	oracle := NewOracle(embedder, nil, nil, nil)

	same, err := oracle.Similarity(context.Background(), "built REST APIs in Go", "Go backend experience")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	unrelated, err := oracle.Similarity(context.Background(), "built REST APIs in Go", "drove a forklift")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, unrelated, 1e-9)
}

func TestOracle_SimilarityEmbedError(t *testing.T) {
	oracle := NewOracle(&fakeEmbedder{err: errors.New("quota exceeded")}, nil, nil, nil)

	_, err := oracle.Similarity(context.Background(), "a", "b")

	assert.Error(t, err)
}

func TestOracle_BestMatch(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query":  {1, 0, 0},
		"close":  {0.9, 0.1, 0},
		"far":    {0, 1, 0},
		"medium": {0.5, 0.5, 0},
	}}
	oracle := NewOracle(embedder, nil, nil, nil)

	idx, score, err := oracle.BestMatch(context.Background(), "query", []string{"far", "close", "medium"})

	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Greater(t, score, 0.9)
}

func TestOracle_BestMatchEmptyCandidates(t *testing.T) {
	oracle := NewOracle(&fakeEmbedder{}, nil, nil, nil)

	idx, score, err := oracle.BestMatch(context.Background(), "query", nil)

	require.NoError(t, err)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, score)
}

func TestOracle_Classify(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantLabel  NLILabel
		wantConfid float64
	}{
		{"contradiction", `{"label": "contradiction", "confidence": 0.92}`, LabelContradiction, 0.92},
		{"entailment", `{"label": "Entailment", "confidence": 0.8}`, LabelEntailment, 0.8},
		{"off vocabulary label", `{"label": "unknown", "confidence": 0.5}`, LabelNeutral, 0.5},
		{"clamped confidence", `{"label": "neutral", "confidence": 1.4}`, LabelNeutral, 1.0},
		{"wrapped in prose", `The answer is {"label": "neutral", "confidence": 0.6} as shown.`, LabelNeutral, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := NewOracle(&fakeEmbedder{}, &fakeGenerator{response: tt.response}, nil, nil)

			result, err := oracle.Classify(context.Background(), "Managed a team of 12.", "Never managed anyone.")

			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.InDelta(t, tt.wantConfid, result.Confidence, 1e-9)
		})
	}
}

func TestOracle_ClassifyMalformedResponse(t *testing.T) {
	oracle := NewOracle(&fakeEmbedder{}, &fakeGenerator{response: "not json at all"}, nil, nil)

	_, err := oracle.Classify(context.Background(), "premise", "hypothesis")

	assert.Error(t, err)
}

func TestCachingEmbedder(t *testing.T) {
	inner := &fakeEmbedder{vectors: map[string][]float32{"text": {1, 2, 3}}}
	cached := NewCachingEmbedder(inner)

	first, err := cached.Embed(context.Background(), "text")
	require.NoError(t, err)
	second, err := cached.Embed(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.Len())
}

func TestCachingEmbedder_ErrorNotCached(t *testing.T) {
	inner := &fakeEmbedder{err: errors.New("transient")}
	cached := NewCachingEmbedder(inner)

	_, err := cached.Embed(context.Background(), "text")
	require.Error(t, err)

	inner.err = nil
	inner.vectors = map[string][]float32{"text": {1}}
	vec, err := cached.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
}
