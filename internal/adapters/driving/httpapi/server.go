// Package httpapi exposes the document Q&A pipelines over HTTP.
// It is a driving adapter: handlers translate between the wire format
// and the driving ports, and hold no pipeline logic of their own.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

// maxUploadBytes caps the memory used parsing a multipart upload
// before spilling to disk.
const maxUploadBytes = 32 << 20

// Server serves the document Q&A API.
type Server struct {
	ingest      driving.IngestService
	answers     driving.AnswerService
	addr        string
	corsOrigins []string
}

// NewServer creates an API server over the given services.
func NewServer(ingest driving.IngestService, answers driving.AnswerService, addr string, corsOrigins []string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Server{
		ingest:      ingest,
		answers:     answers,
		addr:        addr,
		corsOrigins: corsOrigins,
	}
}

// Handler returns the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/", s.handleRoot)
	mux.HandleFunc("POST /api/documents/upload", s.handleUpload)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/chat/history", s.handleHistory)

	return corsMiddleware(s.corsOrigins, loggingMiddleware(mux))
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("http server listening on %s", s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
