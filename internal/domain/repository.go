package domain

import "context"

// DocumentStore persists the ledger as a single document.
type DocumentStore interface {
	// Read returns a fresh copy of the whole document. A store holding nothing
	// yet returns NewDocument.
	Read(ctx context.Context) (*Document, error)

	// Write replaces the whole document. It fails with ErrVersionConflict when
	// the stored version differs from doc.Version, and bumps doc.Version on success.
	Write(ctx context.Context, doc *Document) error

	// Ping checks the underlying transport
	Ping(ctx context.Context) error
}
