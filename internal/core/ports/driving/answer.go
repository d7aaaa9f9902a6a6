package driving

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// AnswerService runs the retrieval and answer pipeline.
type AnswerService interface {
	// Answer embeds the question, retrieves the nearest chunks, and
	// produces a grounded answer with per-chunk citations. With an
	// empty index it returns the fixed fallback answer with no sources
	// and makes no LLM call. Each successful answer is appended to the
	// chat history.
	Answer(ctx context.Context, question string) (*domain.Answer, error)

	// History returns up to limit chat messages, newest first.
	History(ctx context.Context, limit int) ([]domain.ChatMessage, error)
}

// MaintenanceService provides out-of-band consistency repair between
// the registry and the vector index.
type MaintenanceService interface {
	// Reconcile deletes vector index entries whose document ID has no
	// registry record. The sweep is idempotent.
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport summarises one reconciliation sweep.
type ReconcileReport struct {
	// IndexedDocuments is the number of distinct document IDs seen in
	// the vector index.
	IndexedDocuments int

	// OrphanedDocuments is the number of document IDs with no registry
	// record.
	OrphanedDocuments int

	// RemovedChunks is the number of orphaned chunk records deleted.
	RemovedChunks int
}
