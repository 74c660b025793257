package infra

import (
	"context"
	"fmt"
	"log"

	"propshare/configs"
	"propshare/internal/database"
	"propshare/internal/domain"
	"propshare/internal/repository"
)

// OpenStore builds the ledger document store selected by STORE_DRIVER. The
// returned close function releases the underlying connection.
func OpenStore(ctx context.Context, cfg *configs.Config) (domain.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case configs.DriverFile, "":
		store, err := repository.NewFileDocumentStore(cfg.Store.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[OK] Ledger store: file %s", cfg.Store.FilePath)
		return store, func() {}, nil

	case configs.DriverPostgres:
		db, err := NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[OK] Ledger store: postgres")
		return repository.NewPostgresDocumentStore(db, repository.DefaultDocumentKey), db.Close, nil

	case configs.DriverRedis:
		client, err := NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[OK] Ledger store: redis key %s", cfg.Redis.Key)
		return repository.NewRedisDocumentStore(client, cfg.Redis.Key), func() { client.Close() }, nil

	case configs.DriverMongo:
		client, err := NewMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[OK] Ledger store: mongo database %s", cfg.Mongo.Database)
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("[WARN] MongoDB disconnect failed: %v", err)
			}
		}
		return repository.NewMongoDocumentStore(client, cfg.Mongo.Database, repository.DefaultDocumentKey), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
