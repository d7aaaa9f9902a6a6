package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// VectorIndex wraps an external vector-similarity store holding one
// record per chunk: embedding, text, and the metadata linking the
// chunk back to its document.
type VectorIndex interface {
	// Add upserts a chunk record keyed by chunk ID. Re-adding the same
	// ID replaces the record; it never duplicates.
	Add(ctx context.Context, chunk domain.Chunk) error

	// Query returns up to k nearest chunks to the query embedding,
	// ordered by ascending distance. It returns fewer than k hits when
	// the index holds fewer records, and an empty slice when empty.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.Hit, error)

	// ChunkIDs returns the IDs of all chunks owned by a document.
	ChunkIDs(ctx context.Context, documentID string) ([]string, error)

	// Delete removes chunk records by ID. Deletion is best-effort: a
	// failure on one ID must not prevent deletion of the others.
	Delete(ctx context.Context, chunkIDs []string) error

	// DocumentIDs returns the distinct document IDs present in the
	// index. Used by the reconciliation sweep.
	DocumentIDs(ctx context.Context) ([]string, error)

	// Count returns the total number of indexed chunks, for diagnostics.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
