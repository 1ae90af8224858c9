// Package vector provides an in-memory cosine-similarity index over
// embedded document fragments. It is a retrieval optimization, not part of
// the scoring critical path.
package vector

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Entry is one stored fragment with its embedding and metadata.
type Entry struct {
	ID        string            `json:"id"`
	Document  string            `json:"document"`
	Embedding []float32         `json:"-"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Match is one nearest-neighbor result.
type Match struct {
	Entry
	Similarity float64 `json:"similarity"`
}

// Index is a concurrency-safe in-memory vector collection.
type Index struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Add stores a batch of fragments. All slices must have equal length;
// metadata may be nil. Existing ids are overwritten.
func (x *Index) Add(ids []string, embeddings [][]float32, documents []string, metadata []map[string]string) error {
	if len(ids) != len(embeddings) || len(ids) != len(documents) {
		return fmt.Errorf("mismatched batch lengths: %d ids, %d embeddings, %d documents",
			len(ids), len(embeddings), len(documents))
	}
	if metadata != nil && len(metadata) != len(ids) {
		return fmt.Errorf("mismatched metadata length: %d for %d ids", len(metadata), len(ids))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for i, id := range ids {
		entry := Entry{ID: id, Document: documents[i], Embedding: embeddings[i]}
		if metadata != nil {
			entry.Metadata = metadata[i]
		}
		x.entries[id] = entry
	}
	return nil
}

// Query returns the topK entries nearest to the query embedding, ordered by
// descending similarity.
func (x *Index) Query(embedding []float32, topK int) []Match {
	if topK <= 0 {
		return nil
	}

	x.mu.RLock()
	matches := make([]Match, 0, len(x.entries))
	for _, entry := range x.entries {
		matches = append(matches, Match{
			Entry:      entry,
			Similarity: cosine(embedding, entry.Embedding),
		})
	}
	x.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// DeleteByMetadata removes every entry whose metadata contains the given
// key/value pair and reports how many were removed.
func (x *Index) DeleteByMetadata(key, value string) int {
	x.mu.Lock()
	defer x.mu.Unlock()

	removed := 0
	for id, entry := range x.entries {
		if entry.Metadata[key] == value {
			delete(x.entries, id)
			removed++
		}
	}
	return removed
}

// cosine returns the cosine similarity of two vectors, 0 for mismatched
// lengths or zero-magnitude inputs. Duplicated from the semantic package
// to avoid an import cycle.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Len reports the number of stored entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
