package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracle_Rerank(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query":  {1, 0, 0},
		"close":  {0.9, 0.1, 0},
		"far":    {0, 1, 0},
		"medium": {0.5, 0.5, 0},
	}}
	oracle := NewOracle(embedder, nil, nil, nil)

	ranked, err := oracle.Rerank(context.Background(), "query", []string{"far", "close", "medium"}, 2)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Index)
	assert.Equal(t, "close", ranked[0].Text)
	assert.Equal(t, 2, ranked[1].Index)
	assert.Greater(t, ranked[0].Similarity, ranked[1].Similarity)
}

func TestOracle_RerankTopKExceedsCandidates(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1, 0, 0},
		"only":  {1, 0, 0},
	}}
	oracle := NewOracle(embedder, nil, nil, nil)

	ranked, err := oracle.Rerank(context.Background(), "query", []string{"only"}, 5)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Index)
}

func TestOracle_RerankEmptyInputs(t *testing.T) {
	oracle := NewOracle(&fakeEmbedder{}, nil, nil, nil)

	ranked, err := oracle.Rerank(context.Background(), "query", nil, 3)
	require.NoError(t, err)
	assert.Nil(t, ranked)

	ranked, err = oracle.Rerank(context.Background(), "query", []string{"a"}, 0)
	require.NoError(t, err)
	assert.Nil(t, ranked)
}

func TestOracle_RerankEmbedError(t *testing.T) {
	oracle := NewOracle(&fakeEmbedder{err: errors.New("quota exceeded")}, nil, nil, nil)

	_, err := oracle.Rerank(context.Background(), "query", []string{"a"}, 1)

	assert.Error(t, err)
}
