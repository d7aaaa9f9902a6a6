package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, including
	// degenerate chunker configuration (overlap >= chunk size).
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates the text extractor could not read a
	// document. Always recovered per file during ingestion, never
	// propagated to sibling files.
	ErrExtraction = errors.New("extraction failed")

	// ErrUpstream indicates the embedding or LLM capability is
	// unreachable or erroring. Not retried automatically.
	ErrUpstream = errors.New("upstream capability failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// IngestAllFailedError is returned when every file in an ingestion
// batch failed. It carries the per-file reasons so callers can report
// each one.
type IngestAllFailedError struct {
	Failed []FileFailure
}

// Error implements the error interface.
func (e *IngestAllFailedError) Error() string {
	reasons := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		reasons[i] = fmt.Sprintf("%s: %s", f.Filename, f.Reason)
	}
	return "all files failed to upload: " + strings.Join(reasons, "; ")
}
