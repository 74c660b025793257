package usecase

import (
	"context"
	"sync"
	"time"

	"propshare/internal/domain"
)

// DocumentWriter is the single writer of the ledger document. Every
// read-modify-write, including maturation triggered by reads, goes through
// Update and is serialized by one mutex. The store's version check catches
// writers living in other processes.
type DocumentWriter struct {
	store domain.DocumentStore
	mu    sync.Mutex

	clockMu sync.RWMutex
	now     func() time.Time
}

// NewDocumentWriter creates a new DocumentWriter
func NewDocumentWriter(store domain.DocumentStore) *DocumentWriter {
	return &DocumentWriter{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source
func (w *DocumentWriter) SetClock(now func() time.Time) {
	w.clockMu.Lock()
	defer w.clockMu.Unlock()
	w.now = now
}

// Update loads the document, runs fn and writes the result back when fn
// reports a change. Nothing is written when fn fails.
func (w *DocumentWriter) Update(ctx context.Context, fn func(doc *domain.Document, now time.Time) (bool, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, err := w.store.Read(ctx)
	if err != nil {
		return domain.NewStorageError("read ledger document", err)
	}

	now := w.clock()
	changed, err := fn(doc, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	doc.UpdatedAt = now
	if err := w.store.Write(ctx, doc); err != nil {
		return domain.NewStorageError("write ledger document", err)
	}
	return nil
}

// View runs fn on a fresh copy of the document without writing it.
func (w *DocumentWriter) View(ctx context.Context, fn func(doc *domain.Document, now time.Time) error) error {
	doc, err := w.store.Read(ctx)
	if err != nil {
		return domain.NewStorageError("read ledger document", err)
	}
	return fn(doc, w.clock())
}

// Ping checks the underlying store
func (w *DocumentWriter) Ping(ctx context.Context) error {
	return w.store.Ping(ctx)
}

func (w *DocumentWriter) clock() time.Time {
	w.clockMu.RLock()
	defer w.clockMu.RUnlock()
	return w.now()
}
