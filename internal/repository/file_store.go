package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"propshare/internal/domain"
)

// FileDocumentStore keeps the ledger as one JSON file on disk.
type FileDocumentStore struct {
	mu   sync.Mutex
	path string
}

// NewFileDocumentStore creates the parent directory if needed. The file itself
// is created on the first write.
func NewFileDocumentStore(path string) (domain.DocumentStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	return &FileDocumentStore{path: path}, nil
}

// Read decodes the whole file into a fresh document.
func (s *FileDocumentStore) Read(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.loadLocked()
}

// Write replaces the file atomically (temp file + rename) after checking the version.
func (s *FileDocumentStore) Write(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	if current.Version != doc.Version {
		return domain.ErrVersionConflict
	}

	next := *doc
	next.Version = doc.Version + 1
	data, err := json.MarshalIndent(&next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ledger document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger document: %w", err)
	}

	doc.Version = next.Version
	return nil
}

// Ping checks that the ledger directory is reachable.
func (s *FileDocumentStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileDocumentStore) loadLocked() (*domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return domain.NewDocument(time.Now().UTC()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger document: %w", err)
	}
	return decodeDocument(data)
}

func decodeDocument(data []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ledger document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}
