package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func TestDocumentRegistry_InsertListDelete(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentRegistry()

	require.NoError(t, r.Insert(ctx, &domain.Document{
		ID: "old", Filename: "old.pdf", UploadDate: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, r.Insert(ctx, &domain.Document{
		ID: "new", Filename: "new.pdf", UploadDate: time.Now(),
	}))

	docs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)

	require.NoError(t, r.Delete(ctx, "old"))
	docs, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRegistry_DeleteUnknown(t *testing.T) {
	r := NewDocumentRegistry()
	err := r.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentRegistry_Get(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentRegistry()
	require.NoError(t, r.Insert(ctx, &domain.Document{ID: "doc", Filename: "doc.pdf"}))

	doc, err := r.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", doc.Filename)

	_, err = r.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatHistory_AppendAndListRecent(t *testing.T) {
	ctx := context.Background()
	h := NewChatHistory()

	base := time.Now()
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, h.Append(ctx, &domain.ChatMessage{
			ID:        id,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := h.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m3", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
}
