package services

import (
	"context"
	"sort"

	"github.com/docsage/docsage/internal/core/domain"
)

// stubExtractor returns a fixed text or error for every document.
type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

// stubEmbedder returns constant vectors and records what it embedded.
type stubEmbedder struct {
	dims      int
	embedErr  error
	batchErr  error
	embedded  []string
	batchSize []int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	s.embedded = append(s.embedded, text)
	return make([]float32, s.dims), nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	s.batchSize = append(s.batchSize, len(texts))
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, s.dims)
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimensions() int   { return s.dims }
func (s *stubEmbedder) ModelName() string { return "stub-embedder" }
func (s *stubEmbedder) Close() error      { return nil }

// stubIndex is an in-memory VectorIndex double. Query returns the
// canned hits rather than computing distances.
type stubIndex struct {
	chunks   map[string]domain.Chunk
	hits     []domain.Hit
	addErr   error
	queryErr error
	listErr  error
	delErr   error
	deleted  []string
}

func newStubIndex() *stubIndex {
	return &stubIndex{chunks: make(map[string]domain.Chunk)}
}

func (s *stubIndex) Add(_ context.Context, chunk domain.Chunk) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.chunks[chunk.ID] = chunk
	return nil
}

func (s *stubIndex) Query(_ context.Context, _ []float32, k int) ([]domain.Hit, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if len(s.hits) > k {
		return s.hits[:k], nil
	}
	return s.hits, nil
}

func (s *stubIndex) ChunkIDs(_ context.Context, documentID string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var ids []string
	for id, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *stubIndex) Delete(_ context.Context, chunkIDs []string) error {
	if s.delErr != nil {
		return s.delErr
	}
	for _, id := range chunkIDs {
		delete(s.chunks, id)
	}
	s.deleted = append(s.deleted, chunkIDs...)
	return nil
}

func (s *stubIndex) DocumentIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, chunk := range s.chunks {
		if _, ok := seen[chunk.DocumentID]; ok {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		ids = append(ids, chunk.DocumentID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *stubIndex) Count(_ context.Context) (int, error) {
	return len(s.chunks), nil
}

func (s *stubIndex) Close() error { return nil }

// stubLLM records the prompts it was called with.
type stubLLM struct {
	answer        string
	err           error
	calls         int
	systemPrompts []string
	userPrompts   []string
}

func (s *stubLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.systemPrompts = append(s.systemPrompts, systemPrompt)
	s.userPrompts = append(s.userPrompts, userPrompt)
	return s.answer, nil
}

func (s *stubLLM) ModelName() string { return "stub-llm" }
func (s *stubLLM) Close() error      { return nil }

// stubRegistry is an in-memory DocumentRegistry double.
type stubRegistry struct {
	docs      map[string]domain.Document
	insertErr error
	listErr   error
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{docs: make(map[string]domain.Document)}
}

func (s *stubRegistry) Insert(_ context.Context, doc *domain.Document) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.docs[doc.ID] = *doc
	return nil
}

func (s *stubRegistry) List(_ context.Context) ([]domain.Document, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *stubRegistry) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (s *stubRegistry) Delete(_ context.Context, id string) error {
	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// stubHistory records appended chat messages.
type stubHistory struct {
	messages  []domain.ChatMessage
	appendErr error
}

func (s *stubHistory) Append(_ context.Context, msg *domain.ChatMessage) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *stubHistory) ListRecent(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit > len(s.messages) {
		limit = len(s.messages)
	}
	out := make([]domain.ChatMessage, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.messages[len(s.messages)-1-i]
	}
	return out, nil
}
