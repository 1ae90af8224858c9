package semantic

import (
	"context"
	"strconv"

	"github.com/jonathan/resume-tailor/internal/vector"
)

// RankedCandidate is one rerank result, carrying the candidate's position
// in the input slice.
type RankedCandidate struct {
	Index      int
	Text       string
	Similarity float64
}

// Rerank orders candidates by embedding similarity to query and returns at
// most topK of them, most similar first. Returns nil when candidates is
// empty or topK is non-positive.
func (o *Oracle) Rerank(ctx context.Context, query string, candidates []string, topK int) ([]RankedCandidate, error) {
	if len(candidates) == 0 || topK <= 0 {
		return nil, nil
	}

	queryVec, err := o.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(candidates))
	embeddings := make([][]float32, len(candidates))
	for i, candidate := range candidates {
		vec, err := o.Embed(ctx, candidate)
		if err != nil {
			return nil, err
		}
		ids[i] = strconv.Itoa(i)
		embeddings[i] = vec
	}

	index := vector.NewIndex()
	if err := index.Add(ids, embeddings, candidates, nil); err != nil {
		return nil, err
	}

	matches := index.Query(queryVec, topK)
	ranked := make([]RankedCandidate, 0, len(matches))
	for _, match := range matches {
		i, err := strconv.Atoi(match.ID)
		if err != nil {
			continue
		}
		ranked = append(ranked, RankedCandidate{Index: i, Text: match.Document, Similarity: match.Similarity})
	}
	return ranked, nil
}
