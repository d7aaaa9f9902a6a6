// Package services contains the application pipelines. Services
// orchestrate the domain through the driven ports and implement the
// driving ports; they hold no transport or storage code of their own.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsage/docsage/internal/chunker"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// requiredExtension is the only upload type the pipeline accepts.
const requiredExtension = ".pdf"

// minTextLength is the minimum stripped length of extracted text for a
// document to count as readable.
const minTextLength = 10

// IngestService runs the ingestion pipeline: extract, chunk, embed,
// index, register.
type IngestService struct {
	extractor   driven.TextExtractor
	chunker     *chunker.Chunker
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	registry    driven.DocumentRegistry
}

// NewIngestService creates an ingest service with injected dependencies.
func NewIngestService(
	extractor driven.TextExtractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	registry driven.DocumentRegistry,
) *IngestService {
	return &IngestService{
		extractor:   extractor,
		chunker:     ch,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		registry:    registry,
	}
}

// Ingest processes a batch of uploads in order, with independent
// per-file outcomes. When every file fails the returned error is a
// *domain.IngestAllFailedError carrying each file's reason.
func (s *IngestService) Ingest(ctx context.Context, files []domain.FileUpload) (*domain.UploadResult, error) {
	result := &domain.UploadResult{}

	for _, file := range files {
		doc, reason := s.processFile(ctx, file)
		if reason != "" {
			logger.Info("upload failed for %s: %s", file.Filename, reason)
			result.Failed = append(result.Failed, domain.FileFailure{
				Filename: file.Filename,
				Reason:   reason,
			})
			continue
		}
		logger.Info("uploaded %s with %d chunks", doc.Filename, doc.NumChunks)
		result.Uploaded = append(result.Uploaded, *doc)
	}

	if len(result.Uploaded) == 0 && len(result.Failed) > 0 {
		return nil, &domain.IngestAllFailedError{Failed: result.Failed}
	}
	return result, nil
}

// processFile runs the pipeline for one file. It returns the created
// document, or a non-empty failure reason. Failures here never abort
// sibling files.
func (s *IngestService) processFile(ctx context.Context, file domain.FileUpload) (*domain.Document, string) {
	if !strings.HasSuffix(file.Filename, requiredExtension) {
		return nil, domain.ReasonUnsupportedType
	}

	if len(file.Data) == 0 {
		return nil, domain.ReasonEmptyFile
	}

	// Extraction errors are converted, never propagated raw.
	text, err := s.extractor.Extract(ctx, file.Data)
	if err != nil {
		logger.Error("extraction failed for %s: %v", file.Filename, err)
		return nil, domain.ReasonUnreadable
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		return nil, domain.ReasonUnreadable
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, domain.ReasonNoContent
	}

	doc, err := s.indexChunks(ctx, file, chunks)
	if err != nil {
		logger.Error("unexpected error uploading %s: %v", file.Filename, err)
		return nil, fmt.Sprintf("unexpected error: %v", err)
	}
	return doc, ""
}

// indexChunks embeds and indexes a file's chunks, then registers the
// document. The registry insert comes last: a document exists only
// once its record is written. Vector entries written before a failure
// here are left for the reconciliation sweep.
func (s *IngestService) indexChunks(ctx context.Context, file domain.FileUpload, chunks []string) (*domain.Document, error) {
	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d for %d chunks", len(embeddings), len(chunks))
	}

	docID := uuid.New().String()
	for i, text := range chunks {
		page, ok := chunker.PageOf(text)
		if !ok {
			page = domain.UnknownPage
		}

		err := s.vectorIndex.Add(ctx, domain.Chunk{
			ID:         domain.ChunkID(docID, i),
			DocumentID: docID,
			Filename:   file.Filename,
			Sequence:   i,
			Page:       page,
			Text:       text,
			Embedding:  embeddings[i],
		})
		if err != nil {
			return nil, fmt.Errorf("indexing chunk %d: %w", i, err)
		}
	}

	doc := &domain.Document{
		ID:         docID,
		Filename:   file.Filename,
		UploadDate: time.Now().UTC(),
		NumChunks:  len(chunks),
		FileSize:   int64(len(file.Data)),
	}
	if err := s.registry.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}

	return doc, nil
}

// Delete removes a document record and cascades to its vector index
// entries. The registry delete is authoritative: cleanup failures are
// logged and tolerated, and never reverse the registry delete.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if err := s.registry.Delete(ctx, documentID); err != nil {
		return err
	}

	chunkIDs, err := s.vectorIndex.ChunkIDs(ctx, documentID)
	if err != nil {
		logger.Warn("looking up chunks for deleted document %s: %v", documentID, err)
		return nil
	}
	if len(chunkIDs) == 0 {
		return nil
	}

	if err := s.vectorIndex.Delete(ctx, chunkIDs); err != nil {
		logger.Warn("deleting %d chunks for document %s: %v", len(chunkIDs), documentID, err)
	}
	return nil
}

// List returns all registered documents.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	return s.registry.List(ctx)
}
