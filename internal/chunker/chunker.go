// Package chunker provides deterministic word-window text chunking
// with page-marker extraction for retrieval indexing.
package chunker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/docsage/docsage/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping words between
// consecutive chunks.
const DefaultOverlap = 50

// pageMarker matches the literal page markers the text extractor
// embeds before each page's text.
var pageMarker = regexp.MustCompile(`\[Page (\d+)\]`)

// Chunker splits extracted text into overlapping word windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options. An overlap that is not
// strictly smaller than the chunk size leaves no forward stride, so it
// is rejected as a configuration error rather than clamped.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into whitespace-delimited tokens and produces
// sliding windows of chunkSize tokens with stride chunkSize-overlap,
// each rejoined with single spaces. The terminal window may be shorter
// than chunkSize. Empty input produces no chunks.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	chunks := make([]string, 0, (len(words)+stride-1)/stride)

	for start := 0; start < len(words); start += stride {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}

// PageOf returns the numeric value of the first "[Page N]" marker in
// the chunk. The second return is false when the chunk carries no
// marker, which happens when a window loses its leading marker to the
// chunking offset; callers store domain.UnknownPage in that case.
func PageOf(chunk string) (int, bool) {
	m := pageMarker.FindStringSubmatch(chunk)
	if m == nil {
		return 0, false
	}

	page, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return page, true
}
