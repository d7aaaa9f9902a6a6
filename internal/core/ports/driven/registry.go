package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// DocumentRegistry persists document metadata records.
// Backed by SQLite. The registry is the authoritative existence record
// for documents; the vector index cascades from it.
type DocumentRegistry interface {
	// Insert stores a new document record.
	Insert(ctx context.Context, doc *domain.Document) error

	// List returns all registered documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID. Returns domain.ErrNotFound when
	// no record exists.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document record by ID. Returns
	// domain.ErrNotFound when no record matched.
	Delete(ctx context.Context, id string) error
}

// ChatHistory is the append-only log of question/answer turns.
// Records are immutable once appended.
type ChatHistory interface {
	// Append records a chat message. It fails only when the underlying
	// store is unavailable.
	Append(ctx context.Context, msg *domain.ChatMessage) error

	// ListRecent returns up to limit messages ordered by timestamp
	// descending.
	ListRecent(ctx context.Context, limit int) ([]domain.ChatMessage, error)
}
