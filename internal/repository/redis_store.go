package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"propshare/internal/domain"
)

// RedisDocumentStore keeps the ledger as one JSON string under a single key.
// Writes run inside WATCH/MULTI so a concurrent writer aborts the transaction.
type RedisDocumentStore struct {
	client *redis.Client
	key    string
}

// NewRedisDocumentStore creates a new RedisDocumentStore
func NewRedisDocumentStore(client *redis.Client, key string) domain.DocumentStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &RedisDocumentStore{client: client, key: key}
}

func (r *RedisDocumentStore) Read(ctx context.Context) (*domain.Document, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewDocument(time.Now().UTC()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger document: %w", err)
	}
	return decodeDocument(data)
}

func (r *RedisDocumentStore) Write(ctx context.Context, doc *domain.Document) error {
	next := *doc
	next.Version = doc.Version + 1
	body, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		var stored int64
		data, err := tx.Get(ctx, r.key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			stored = 0
		case err != nil:
			return err
		default:
			var head struct {
				Version int64 `json:"version"`
			}
			if err := json.Unmarshal(data, &head); err != nil {
				return fmt.Errorf("failed to decode stored version: %w", err)
			}
			stored = head.Version
		}

		if stored != doc.Version {
			return domain.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, body, 0)
			return nil
		})
		return err
	}

	err = r.client.Watch(ctx, txf, r.key)
	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, domain.ErrVersionConflict) {
		return domain.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to save ledger document: %w", err)
	}

	doc.Version = next.Version
	return nil
}

func (r *RedisDocumentStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
