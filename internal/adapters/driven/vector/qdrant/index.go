// Package qdrant provides a vector index adapter backed by a Qdrant
// collection, accessed over its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultURL        = "http://localhost:6333"
	DefaultCollection = "documents"
	DefaultTimeout    = 15 * time.Second

	// scrollPageSize bounds one scroll request.
	scrollPageSize = 256
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// URL is the Qdrant base URL (default: http://localhost:6333).
	URL string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Collection is the collection name (default: documents).
	Collection string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a Qdrant-backed implementation of driven.VectorIndex.
//
// Qdrant point IDs must be UUIDs, so each chunk's point ID is derived
// deterministically from the chunk ID; the chunk ID itself travels in
// the payload. Deriving the same UUID for the same chunk ID makes Add
// an idempotent upsert.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// NewIndex creates a Qdrant index adapter.
func NewIndex(cfg Config) *Index {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Init creates the collection if it does not exist. Qdrant answers
// 200 for an existing collection with a matching schema.
func (x *Index) Init(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: invalid embedding dimensions %d", domain.ErrInvalidInput, dimensions)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	return x.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", x.collection), body, nil)
}

// pointID derives the deterministic Qdrant point UUID for a chunk ID.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// pointPayload is the metadata stored alongside each vector.
type pointPayload struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Sequence   int    `json:"sequence"`
	Page       int    `json:"page"`
	Text       string `json:"text"`
}

// Add upserts a chunk record.
func (x *Index) Add(ctx context.Context, chunk domain.Chunk) error {
	body := map[string]any{
		"points": []map[string]any{{
			"id":     pointID(chunk.ID),
			"vector": chunk.Embedding,
			"payload": pointPayload{
				ChunkID:    chunk.ID,
				DocumentID: chunk.DocumentID,
				Filename:   chunk.Filename,
				Sequence:   chunk.Sequence,
				Page:       chunk.Page,
				Text:       chunk.Text,
			},
		}},
	}
	return x.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", x.collection), body, nil)
}

// Query returns up to k nearest chunks by ascending cosine distance.
func (x *Index) Query(ctx context.Context, embedding []float32, k int) ([]domain.Hit, error) {
	req := map[string]any{
		"vector":       embedding,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64      `json:"score"`
			Payload pointPayload `json:"payload"`
		} `json:"result"`
	}
	if err := x.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", x.collection), req, &resp); err != nil {
		return nil, err
	}

	hits := make([]domain.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, domain.Hit{
			Chunk: domain.Chunk{
				ID:         r.Payload.ChunkID,
				DocumentID: r.Payload.DocumentID,
				Filename:   r.Payload.Filename,
				Sequence:   r.Payload.Sequence,
				Page:       r.Payload.Page,
				Text:       r.Payload.Text,
			},
			// Qdrant reports cosine similarity; the port contract is
			// ascending distance.
			Distance: 1 - r.Score,
		})
	}
	return hits, nil
}

// ChunkIDs returns the IDs of all chunks owned by a document.
func (x *Index) ChunkIDs(ctx context.Context, documentID string) ([]string, error) {
	filter := map[string]any{
		"must": []map[string]any{{
			"key":   "document_id",
			"match": map[string]any{"value": documentID},
		}},
	}

	var ids []string
	err := x.scroll(ctx, filter, func(p pointPayload) {
		ids = append(ids, p.ChunkID)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes chunk records by ID. The bulk call handles the common
// case; on failure it degrades to per-ID deletes so one bad ID cannot
// block the rest.
func (x *Index) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	points := make([]string, len(chunkIDs))
	for i, id := range chunkIDs {
		points[i] = pointID(id)
	}

	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", x.collection)
	if err := x.do(ctx, http.MethodPost, path, map[string]any{"points": points}, nil); err == nil {
		return nil
	}

	var lastErr error
	for i, point := range points {
		if err := x.do(ctx, http.MethodPost, path, map[string]any{"points": []string{point}}, nil); err != nil {
			logger.Warn("qdrant: failed to delete chunk %s: %v", chunkIDs[i], err)
			lastErr = err
		}
	}
	return lastErr
}

// DocumentIDs returns the distinct document IDs present in the index.
func (x *Index) DocumentIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	err := x.scroll(ctx, nil, func(p pointPayload) {
		if _, ok := seen[p.DocumentID]; !ok {
			seen[p.DocumentID] = struct{}{}
			ids = append(ids, p.DocumentID)
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the total number of indexed chunks.
func (x *Index) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := x.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/count", x.collection),
		map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// scroll pages through the collection, invoking visit for each point's
// payload. A nil filter visits every point.
func (x *Index) scroll(ctx context.Context, filter map[string]any, visit func(pointPayload)) error {
	var offset any
	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if filter != nil {
			req["filter"] = filter
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					Payload pointPayload `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := x.do(ctx, http.MethodPost,
			fmt.Sprintf("/collections/%s/points/scroll", x.collection), req, &resp); err != nil {
			return err
		}

		for _, p := range resp.Result.Points {
			visit(p.Payload)
		}

		if resp.Result.NextPageOffset == nil {
			return nil
		}
		offset = resp.Result.NextPageOffset
	}
}

// do executes one JSON request against the Qdrant API.
func (x *Index) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.url+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("qdrant %s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
