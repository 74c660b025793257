package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"propshare/internal/domain"
)

// DefaultDocumentKey identifies the ledger row/key/document in shared stores.
const DefaultDocumentKey = "ledger"

// PostgresDocumentStore keeps the ledger in a single JSONB row of ledger_documents.
type PostgresDocumentStore struct {
	db  *pgxpool.Pool
	key string
}

// NewPostgresDocumentStore creates a new PostgresDocumentStore
func NewPostgresDocumentStore(db *pgxpool.Pool, key string) domain.DocumentStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &PostgresDocumentStore{db: db, key: key}
}

// Read loads the document row
func (r *PostgresDocumentStore) Read(ctx context.Context) (*domain.Document, error) {
	query := `
		SELECT version, body
		FROM ledger_documents
		WHERE id = $1
	`

	var version int64
	var body []byte
	err := r.db.QueryRow(ctx, query, r.key).Scan(&version, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewDocument(time.Now().UTC()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger document: %w", err)
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	doc.Version = version
	return doc, nil
}

// Write inserts the first version or updates the row guarded by its version
func (r *PostgresDocumentStore) Write(ctx context.Context, doc *domain.Document) error {
	next := *doc
	next.Version = doc.Version + 1
	body, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	var query string
	var args []any
	if doc.Version == 0 {
		query = `
			INSERT INTO ledger_documents (id, version, body, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (id) DO NOTHING
		`
		args = []any{r.key, next.Version, body}
	} else {
		query = `
			UPDATE ledger_documents
			SET version = $1, body = $2, updated_at = NOW()
			WHERE id = $3 AND version = $4
		`
		args = []any{next.Version, body, r.key, doc.Version}
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save ledger document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	doc.Version = next.Version
	return nil
}

// Ping checks the pool
func (r *PostgresDocumentStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
