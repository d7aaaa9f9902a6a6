package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultTopK is the number of nearest chunks retrieved per question.
const DefaultTopK = 5

// DefaultHistoryLimit caps chat history listings.
const DefaultHistoryLimit = 50

// FallbackAnswer is returned when the vector index holds no chunks.
// No LLM call is made in that case.
const FallbackAnswer = "I don't have any documents to answer from. Please upload documents first."

// AnswerService runs the retrieval and answer pipeline.
type AnswerService struct {
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	llm         driven.LLMService
	history     driven.ChatHistory
	topK        int
}

// NewAnswerService creates an answer service with injected dependencies.
func NewAnswerService(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	llm driven.LLMService,
	history driven.ChatHistory,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{
		embedder:    embedder,
		vectorIndex: vectorIndex,
		llm:         llm,
		history:     history,
		topK:        topK,
	}
}

// Answer embeds the question, retrieves the nearest chunks, and asks
// the LLM for a grounded answer over them. Each successful answer is
// appended to the chat history with the distinct source filenames.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	if count, err := s.vectorIndex.Count(ctx); err == nil {
		logger.Debug("vector index holds %d chunks", count)
	}

	hits, err := s.vectorIndex.Query(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	if len(hits) == 0 {
		return &domain.Answer{
			Answer:  FallbackAnswer,
			Sources: []domain.Source{},
		}, nil
	}

	sources := make([]domain.Source, len(hits))
	for i, hit := range hits {
		sources[i] = domain.Source{
			Text:     hit.Chunk.Text,
			Filename: hit.Chunk.Filename,
			Page:     hit.Chunk.Page,
		}
	}

	answer, err := s.llm.Complete(ctx, groundingSystemPrompt, userPrompt(question, contextBlock(sources)))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    answer,
		Sources:   distinctFilenames(sources),
		Timestamp: time.Now().UTC(),
	}
	if err := s.history.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("recording chat history: %w", err)
	}

	return &domain.Answer{
		Answer:  answer,
		Sources: sources,
	}, nil
}

// History returns up to limit chat messages, newest first.
func (s *AnswerService) History(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return s.history.ListRecent(ctx, limit)
}

// contextBlock renders the retrieved chunks in rank order, most
// similar first, each under a source header the LLM can cite.
func contextBlock(sources []domain.Source) string {
	parts := make([]string, len(sources))
	for i, src := range sources {
		parts[i] = fmt.Sprintf("[Source: %s, Page: %d]\n%s", src.Filename, src.Page, src.Text)
	}
	return strings.Join(parts, "\n\n")
}

// distinctFilenames returns the deduplicated source filenames in
// first-seen retrieval order.
func distinctFilenames(sources []domain.Source) []string {
	seen := make(map[string]struct{}, len(sources))
	var names []string
	for _, src := range sources {
		if _, ok := seen[src.Filename]; ok {
			continue
		}
		seen[src.Filename] = struct{}{}
		names = append(names, src.Filename)
	}
	return names
}
