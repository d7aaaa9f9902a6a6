// Package pdf provides a text extractor for PDF documents backed by
// the poppler pdftotext tool.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Extractor extracts page-tagged text from PDF bytes.
// pdftotext separates pages with form feeds; the extractor rewrites
// the separation into the "[Page N]" markers the chunker recovers
// page provenance from.
type Extractor struct {
	runner CommandRunner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner sets a custom command runner. Used by tests.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// New creates a pdftotext-backed extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{runner: execRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts PDF bytes to plain text with a literal "[Page N]\n"
// marker before each page. Any tool failure wraps domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	// "-" twice: read the PDF from stdin, write text to stdout.
	out, err := e.runner.Run(ctx, data, "pdftotext", "-enc", "UTF-8", "-", "-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	// pdftotext ends every page with a form feed.
	pages := strings.Split(string(out), "\f")
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}

	var sb strings.Builder
	for i, page := range pages {
		fmt.Fprintf(&sb, "[Page %d]\n%s\n\n", i+1, page)
	}
	return sb.String(), nil
}
