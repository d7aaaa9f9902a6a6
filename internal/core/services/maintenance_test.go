package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func seedChunks(index *stubIndex, docID string, n int) {
	for i := 0; i < n; i++ {
		index.chunks[domain.ChunkID(docID, i)] = domain.Chunk{
			ID:         domain.ChunkID(docID, i),
			DocumentID: docID,
			Sequence:   i,
		}
	}
}

func TestReconcileRemovesOrphans(t *testing.T) {
	index := newStubIndex()
	registry := newStubRegistry()
	registry.docs["kept"] = domain.Document{ID: "kept", Filename: "kept.pdf"}
	seedChunks(index, "kept", 3)
	seedChunks(index, "orphan", 2)
	svc := NewMaintenanceService(index, registry)

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.IndexedDocuments)
	assert.Equal(t, 1, report.OrphanedDocuments)
	assert.Equal(t, 2, report.RemovedChunks)

	remaining, err := index.ChunkIDs(context.Background(), "kept")
	require.NoError(t, err)
	assert.Len(t, remaining, 3, "registered documents keep their chunks")

	orphaned, err := index.ChunkIDs(context.Background(), "orphan")
	require.NoError(t, err)
	assert.Empty(t, orphaned)
}

func TestReconcileIdempotent(t *testing.T) {
	index := newStubIndex()
	registry := newStubRegistry()
	seedChunks(index, "orphan", 4)
	svc := NewMaintenanceService(index, registry)

	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.RemovedChunks)

	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.OrphanedDocuments)
	assert.Zero(t, second.RemovedChunks)
}

func TestReconcileCleanIndex(t *testing.T) {
	index := newStubIndex()
	registry := newStubRegistry()
	registry.docs["a"] = domain.Document{ID: "a"}
	seedChunks(index, "a", 2)
	svc := NewMaintenanceService(index, registry)

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.IndexedDocuments)
	assert.Zero(t, report.OrphanedDocuments)
	assert.Zero(t, report.RemovedChunks)
}
