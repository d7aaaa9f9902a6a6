package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSentinelErrors tests that sentinel errors survive wrapping
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"not found", ErrNotFound},
		{"invalid input", ErrInvalidInput},
		{"extraction", ErrExtraction},
		{"upstream", ErrUpstream},
		{"embedding unavailable", ErrEmbeddingUnavailable},
		{"llm unavailable", ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.sentinel)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

// TestIngestAllFailedError tests the aggregate error message
func TestIngestAllFailedError(t *testing.T) {
	err := &IngestAllFailedError{
		Failed: []FileFailure{
			{Filename: "notes.txt", Reason: ReasonUnsupportedType},
			{Filename: "blank.pdf", Reason: ReasonEmptyFile},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "all files failed to upload")
	assert.Contains(t, msg, "notes.txt: unsupported file type")
	assert.Contains(t, msg, "blank.pdf: empty file")
}

// TestIngestAllFailedError_AsTarget tests errors.As extraction
func TestIngestAllFailedError_AsTarget(t *testing.T) {
	var err error = fmt.Errorf("ingest: %w", &IngestAllFailedError{
		Failed: []FileFailure{{Filename: "a.pdf", Reason: ReasonNoContent}},
	})

	var target *IngestAllFailedError
	require.True(t, errors.As(err, &target))
	require.Len(t, target.Failed, 1)
	assert.Equal(t, "a.pdf", target.Failed[0].Filename)
}
