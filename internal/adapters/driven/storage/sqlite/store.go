// Package sqlite provides SQLite-backed metadata storage for the
// document registry and the chat history log.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsage/docsage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docsage/data/docsage.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docsage", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docsage.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentRegistry returns a DocumentRegistry interface backed by this store.
func (s *Store) DocumentRegistry() driven.DocumentRegistry {
	return &registryStore{store: s}
}

// ChatHistory returns a ChatHistory interface backed by this store.
func (s *Store) ChatHistory() driven.ChatHistory {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Registry ====================

// registryStore implements driven.DocumentRegistry.
type registryStore struct {
	store *Store
}

var _ driven.DocumentRegistry = (*registryStore)(nil)

// Insert stores a new document record.
func (r *registryStore) Insert(ctx context.Context, doc *domain.Document) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, upload_date, num_chunks, file_size)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.UploadDate, doc.NumChunks, doc.FileSize)

	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// List returns all registered documents, newest first.
func (r *registryStore) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, filename, upload_date, num_chunks, file_size
		FROM documents ORDER BY upload_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.UploadDate,
			&doc.NumChunks, &doc.FileSize); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// Get retrieves a document by ID.
func (r *registryStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, filename, upload_date, num_chunks, file_size
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.UploadDate,
		&doc.NumChunks, &doc.FileSize); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	return &doc, nil
}

// Delete removes a document record by ID.
func (r *registryStore) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Chat History ====================

// historyStore implements driven.ChatHistory.
type historyStore struct {
	store *Store
}

var _ driven.ChatHistory = (*historyStore)(nil)

// Append records a chat message.
func (h *historyStore) Append(ctx context.Context, msg *domain.ChatMessage) error {
	sourcesJSON, err := json.Marshal(msg.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	_, err = h.store.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, question, answer, sources, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.Question, msg.Answer, string(sourcesJSON), msg.Timestamp)

	if err != nil {
		return fmt.Errorf("appending chat message: %w", err)
	}
	return nil
}

// ListRecent returns up to limit messages ordered by timestamp descending.
func (h *historyStore) ListRecent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, question, answer, sources, timestamp
		FROM chat_messages ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.ChatMessage
		var sourcesJSON string
		if err := rows.Scan(&msg.ID, &msg.Question, &msg.Answer,
			&sourcesJSON, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &msg.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}

	return msgs, nil
}
