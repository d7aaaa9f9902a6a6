package services

import (
	"context"
	"fmt"

	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

var _ driving.MaintenanceService = (*MaintenanceService)(nil)

// MaintenanceService reconciles the vector index against the document
// registry, removing chunk vectors whose document no longer exists.
type MaintenanceService struct {
	vectorIndex driven.VectorIndex
	registry    driven.DocumentRegistry
}

// NewMaintenanceService creates a maintenance service.
func NewMaintenanceService(vectorIndex driven.VectorIndex, registry driven.DocumentRegistry) *MaintenanceService {
	return &MaintenanceService{
		vectorIndex: vectorIndex,
		registry:    registry,
	}
}

// Reconcile sweeps the vector index for documents absent from the
// registry and deletes their chunks. The registry is authoritative:
// a document deleted there but still present in the index is an
// orphan left by an interrupted deletion or ingestion. The sweep is
// idempotent; running it twice removes nothing the second time.
func (s *MaintenanceService) Reconcile(ctx context.Context) (*driving.ReconcileReport, error) {
	registered, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing registered documents: %w", err)
	}
	known := make(map[string]struct{}, len(registered))
	for _, doc := range registered {
		known[doc.ID] = struct{}{}
	}

	indexed, err := s.vectorIndex.DocumentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexed documents: %w", err)
	}

	report := &driving.ReconcileReport{IndexedDocuments: len(indexed)}
	for _, docID := range indexed {
		if _, ok := known[docID]; ok {
			continue
		}
		chunkIDs, err := s.vectorIndex.ChunkIDs(ctx, docID)
		if err != nil {
			return nil, fmt.Errorf("listing chunks for orphaned document %s: %w", docID, err)
		}
		if len(chunkIDs) == 0 {
			continue
		}
		if err := s.vectorIndex.Delete(ctx, chunkIDs); err != nil {
			return nil, fmt.Errorf("removing orphaned chunks for document %s: %w", docID, err)
		}
		logger.Info("reconcile: removed %d orphaned chunks for document %s", len(chunkIDs), docID)
		report.OrphanedDocuments++
		report.RemovedChunks += len(chunkIDs)
	}

	return report, nil
}
