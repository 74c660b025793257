package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"propshare/internal/domain"
)

// mongoLedgerRecord wraps the JSON body so decimals and ids keep their JSON encoding.
type mongoLedgerRecord struct {
	ID        string    `bson:"_id"`
	Version   int64     `bson:"version"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDocumentStore keeps the ledger as one document of a collection.
type MongoDocumentStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	key        string
}

// NewMongoDocumentStore creates a new MongoDocumentStore
func NewMongoDocumentStore(client *mongo.Client, database, key string) domain.DocumentStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &MongoDocumentStore{
		client:     client,
		collection: client.Database(database).Collection("ledger_documents"),
		key:        key,
	}
}

func (m *MongoDocumentStore) Read(ctx context.Context) (*domain.Document, error) {
	var record mongoLedgerRecord
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewDocument(time.Now().UTC()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger document: %w", err)
	}

	doc, err := decodeDocument([]byte(record.Body))
	if err != nil {
		return nil, err
	}
	doc.Version = record.Version
	return doc, nil
}

func (m *MongoDocumentStore) Write(ctx context.Context, doc *domain.Document) error {
	next := *doc
	next.Version = doc.Version + 1
	body, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode ledger document: %w", err)
	}

	record := mongoLedgerRecord{
		ID:        m.key,
		Version:   next.Version,
		Body:      string(body),
		UpdatedAt: time.Now().UTC(),
	}

	if doc.Version == 0 {
		_, err := m.collection.InsertOne(ctx, record)
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrVersionConflict
		}
		if err != nil {
			return fmt.Errorf("failed to insert ledger document: %w", err)
		}
		doc.Version = next.Version
		return nil
	}

	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": m.key, "version": doc.Version}, record)
	if err != nil {
		return fmt.Errorf("failed to replace ledger document: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}

	doc.Version = next.Version
	return nil
}

func (m *MongoDocumentStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}
