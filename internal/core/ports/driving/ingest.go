package driving

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// IngestService runs the ingestion pipeline and manages the document
// lifecycle.
type IngestService interface {
	// Ingest processes a batch of uploads. Files are processed in the
	// order supplied with independent outcomes: one file's failure
	// never aborts its siblings. When every file fails the returned
	// error is a *domain.IngestAllFailedError carrying the per-file
	// reasons; when at least one file succeeds the result reports both
	// the uploaded and failed sets and the error is nil.
	Ingest(ctx context.Context, files []domain.FileUpload) (*domain.UploadResult, error)

	// Delete removes a document and cascades to its vector index
	// entries. The registry delete is authoritative: a vector cleanup
	// failure is logged, not surfaced, and never reverses the registry
	// delete. Returns domain.ErrNotFound for an unknown ID.
	Delete(ctx context.Context, documentID string) error

	// List returns all registered documents.
	List(ctx context.Context) ([]domain.Document, error)
}
