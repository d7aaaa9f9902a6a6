package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/logger"
)

// documentJSON is the wire form of a registry record.
type documentJSON struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	NumChunks  int       `json:"num_chunks"`
	FileSize   int64     `json:"file_size"`
}

func toDocumentJSON(doc domain.Document) documentJSON {
	return documentJSON{
		ID:         doc.ID,
		Filename:   doc.Filename,
		UploadDate: doc.UploadDate,
		NumChunks:  doc.NumChunks,
		FileSize:   doc.FileSize,
	}
}

// uploadResponse mirrors the per-file outcome of an ingestion batch.
type uploadResponse struct {
	Uploaded    int                  `json:"uploaded"`
	Documents   []documentJSON       `json:"documents"`
	Failed      int                  `json:"failed"`
	FailedFiles []domain.FileFailure `json:"failed_files"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatMessageJSON struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Sources   []string  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "DocSage document Q&A API"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files supplied")
		return
	}

	files := make([]domain.FileUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable multipart part")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable multipart part")
			return
		}
		files = append(files, domain.FileUpload{Filename: header.Filename, Data: data})
	}

	result, err := s.ingest.Ingest(r.Context(), files)
	if err != nil {
		var allFailed *domain.IngestAllFailedError
		if errors.As(err, &allFailed) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message":      "All files failed to upload",
				"failed_files": allFailed.Failed,
			})
			return
		}
		logger.Error("upload: %v", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	resp := uploadResponse{
		Uploaded:    len(result.Uploaded),
		Documents:   make([]documentJSON, 0, len(result.Uploaded)),
		Failed:      len(result.Failed),
		FailedFiles: result.Failed,
	}
	if resp.FailedFiles == nil {
		resp.FailedFiles = []domain.FileFailure{}
	}
	for _, doc := range result.Uploaded {
		resp.Documents = append(resp.Documents, toDocumentJSON(doc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ingest.List(r.Context())
	if err != nil {
		logger.Error("listing documents: %v", err)
		writeError(w, http.StatusInternalServerError, "listing documents failed")
		return
	}
	out := make([]documentJSON, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentJSON(doc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id required")
		return
	}

	err := s.ingest.Delete(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	case err != nil:
		logger.Error("deleting document %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "deleting document failed")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	answer, err := s.answers.Answer(r.Context(), req.Question)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "question required")
	case err != nil:
		logger.Error("chat: %v", err)
		writeError(w, http.StatusInternalServerError, "answering failed")
	default:
		writeJSON(w, http.StatusOK, answer)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	msgs, err := s.answers.History(r.Context(), limit)
	if err != nil {
		logger.Error("chat history: %v", err)
		writeError(w, http.StatusInternalServerError, "listing history failed")
		return
	}

	out := make([]chatMessageJSON, 0, len(msgs))
	for _, msg := range msgs {
		sources := msg.Sources
		if sources == nil {
			sources = []string{}
		}
		out = append(out, chatMessageJSON{
			ID:        msg.ID,
			Question:  msg.Question,
			Answer:    msg.Answer,
			Sources:   sources,
			Timestamp: msg.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
