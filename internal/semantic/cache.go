package semantic

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"
)

// CachingEmbedder memoizes embeddings by content hash. Resume sections and
// job requirements repeat across scoring passes within one analysis, so a
// process-local cache removes most duplicate provider calls.
type CachingEmbedder struct {
	inner Embedder

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewCachingEmbedder wraps an embedder with an in-memory memo cache.
func NewCachingEmbedder(inner Embedder) *CachingEmbedder {
	return &CachingEmbedder{
		inner: inner,
		cache: make(map[string][]float32),
	}
}

// Embed returns the cached embedding for text, calling the inner embedder
// on a miss.
func (e *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := hashKey(text)

	e.mu.RLock()
	vec, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = vec
	e.mu.Unlock()

	return vec, nil
}

// Len reports the number of cached entries.
func (e *CachingEmbedder) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// Close releases the inner embedder.
func (e *CachingEmbedder) Close() error {
	return e.inner.Close()
}

func hashKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
