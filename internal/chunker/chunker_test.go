package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.ChunkSize())
		assert.Equal(t, DefaultOverlap, c.Overlap())
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c, err := New(WithChunkSize(100))
		require.NoError(t, err)
		assert.Equal(t, 100, c.ChunkSize())
	})

	t.Run("custom overlap", func(t *testing.T) {
		c, err := New(WithOverlap(10))
		require.NoError(t, err)
		assert.Equal(t, 10, c.Overlap())
	})

	t.Run("overlap equal to chunk size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("overlap exceeding chunk size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c, err := New(WithChunkSize(0), WithOverlap(-1))
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.ChunkSize())
		assert.Equal(t, DefaultOverlap, c.Overlap())
	})
}

func TestChunk_Empty(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Nil(t, c.Chunk(""))
	assert.Nil(t, c.Chunk("   \n\t  "))
}

func TestChunk_SingleShortWindow(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks := c.Chunk("alpha beta gamma")
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunk_NormalisesWhitespace(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	chunks := c.Chunk("alpha\n\nbeta\t gamma")
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

// TestChunk_WindowCount verifies the window count matches the sliding
// stride: one window per stride start position before the end of input.
func TestChunk_WindowCount(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		chunkSize int
		overlap   int
		want      int
	}{
		{"fits in one window", 400, 500, 50, 1},
		{"exactly one window", 450, 500, 50, 1},
		{"trailing overlap window", 500, 500, 50, 2},
		{"just past one stride", 451, 500, 50, 2},
		{"two full strides", 900, 500, 50, 2},
		{"three windows", 901, 500, 50, 3},
		{"fewer words than overlap", 30, 500, 50, 1},
		{"small windows", 25, 10, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithChunkSize(tt.chunkSize), WithOverlap(tt.overlap))
			require.NoError(t, err)

			chunks := c.Chunk(words(tt.wordCount))
			assert.Len(t, chunks, tt.want)
		})
	}
}

// TestChunk_Overlap verifies consecutive windows share exactly
// `overlap` words.
func TestChunk_Overlap(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(3))
	require.NoError(t, err)

	chunks := c.Chunk(words(20))
	require.Len(t, chunks, 3)

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	require.Len(t, first, 10)
	assert.Equal(t, first[7:], second[:3])
}

// TestChunk_RoundTrip verifies that concatenating each window's first
// stride words reconstructs the original token sequence.
func TestChunk_RoundTrip(t *testing.T) {
	const wordCount = 1234
	c, err := New(WithChunkSize(100), WithOverlap(20))
	require.NoError(t, err)

	original := words(wordCount)
	chunks := c.Chunk(original)
	stride := c.ChunkSize() - c.Overlap()

	var rebuilt []string
	for _, chunk := range chunks {
		w := strings.Fields(chunk)
		if len(w) > stride {
			w = w[:stride]
		}
		rebuilt = append(rebuilt, w...)
	}

	// The terminal window may re-cover tokens already emitted; trim to
	// the original length before comparing.
	originalWords := strings.Fields(original)
	require.GreaterOrEqual(t, len(rebuilt), len(originalWords))
	assert.Equal(t, originalWords, rebuilt[:len(originalWords)])
}

func TestPageOf(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		wantPage int
		wantOK   bool
	}{
		{"marker at start", "[Page 1]\nIntroduction text", 1, true},
		{"marker mid-chunk", "trailing words [Page 12]\nnext page text", 12, true},
		{"first of several markers", "[Page 3] text [Page 4] more", 3, true},
		{"no marker", "text that lost its marker to the window offset", 0, false},
		{"malformed marker", "[Page ] [Page x]", 0, false},
		{"empty chunk", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := PageOf(tt.chunk)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPage, page)
		})
	}
}
