// Package memory provides an in-memory vector index using brute-force
// cosine similarity. It backs tests and the default development
// profile; production deployments use the qdrant adapter.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk // chunk ID -> record
}

// NewIndex creates an empty in-memory vector index.
func NewIndex() *Index {
	return &Index{chunks: make(map[string]domain.Chunk)}
}

// Add upserts a chunk record keyed by its ID.
func (x *Index) Add(_ context.Context, chunk domain.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.chunks[chunk.ID] = chunk
	return nil
}

// Query returns up to k nearest chunks by ascending cosine distance.
func (x *Index) Query(_ context.Context, embedding []float32, k int) ([]domain.Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]domain.Hit, 0, len(x.chunks))
	for _, chunk := range x.chunks {
		hit := domain.Hit{Chunk: chunk, Distance: 1 - cosineSimilarity(embedding, chunk.Embedding)}
		hit.Chunk.Embedding = nil
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		// Stable order for equal distances.
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// ChunkIDs returns the IDs of all chunks owned by a document, in
// sequence order.
func (x *Index) ChunkIDs(_ context.Context, documentID string) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var owned []domain.Chunk
	for _, chunk := range x.chunks {
		if chunk.DocumentID == documentID {
			owned = append(owned, chunk)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Sequence < owned[j].Sequence })

	ids := make([]string, len(owned))
	for i, chunk := range owned {
		ids[i] = chunk.ID
	}
	return ids, nil
}

// Delete removes chunk records by ID. Unknown IDs are ignored.
func (x *Index) Delete(_ context.Context, chunkIDs []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, id := range chunkIDs {
		delete(x.chunks, id)
	}
	return nil
}

// DocumentIDs returns the distinct document IDs present in the index.
func (x *Index) DocumentIDs(_ context.Context) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, chunk := range x.chunks {
		if _, ok := seen[chunk.DocumentID]; !ok {
			seen[chunk.DocumentID] = struct{}{}
			ids = append(ids, chunk.DocumentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the total number of indexed chunks.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks), nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
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
