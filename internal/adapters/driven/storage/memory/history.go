package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure ChatHistory implements the interface.
var _ driven.ChatHistory = (*ChatHistory)(nil)

// ChatHistory is an in-memory implementation of driven.ChatHistory.
type ChatHistory struct {
	mu   sync.RWMutex
	msgs []domain.ChatMessage
}

// NewChatHistory creates a new in-memory chat history log.
func NewChatHistory() *ChatHistory {
	return &ChatHistory{}
}

// Append records a chat message.
func (h *ChatHistory) Append(_ context.Context, msg *domain.ChatMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, *msg)
	return nil
}

// ListRecent returns up to limit messages ordered by timestamp descending.
func (h *ChatHistory) ListRecent(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msgs := make([]domain.ChatMessage, len(h.msgs))
	copy(msgs, h.msgs)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.After(msgs[j].Timestamp)
	})

	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}
