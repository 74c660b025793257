package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"propshare/internal/domain"
)

func newTestFileStore(t *testing.T) (domain.DocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ledger.json")
	store, err := NewFileDocumentStore(path)
	if err != nil {
		t.Fatalf("NewFileDocumentStore() failed: %v", err)
	}
	return store, path
}

func TestFileDocumentStore_EmptyReadSeedsCatalog(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	doc, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if doc.Version != 0 {
		t.Errorf("Version = %d, want 0", doc.Version)
	}
	if len(doc.Properties) == 0 {
		t.Error("fresh document should carry the default catalog")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() must not create the file, stat err = %v", err)
	}
}

func TestFileDocumentStore_RoundTrip(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	doc, _ := store.Read(ctx)
	user := domain.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", PublicID: "12345"}
	doc.Users = append(doc.Users, user)
	doc.Credit(user.ID, decimal.RequireFromString("250.75"), time.Now().UTC())

	if err := store.Write(ctx, doc); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if doc.Version != 1 {
		t.Errorf("Version after write = %d, want 1", doc.Version)
	}

	reloaded, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if reloaded.Version != 1 {
		t.Errorf("reloaded Version = %d, want 1", reloaded.Version)
	}
	if reloaded.FindUser(user.ID) == nil {
		t.Fatal("user not persisted")
	}
	if got := reloaded.BalanceOf(user.ID); !got.Equal(decimal.RequireFromString("250.75")) {
		t.Errorf("balance = %s, want 250.75", got)
	}
}

func TestFileDocumentStore_VersionConflict(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	first, _ := store.Read(ctx)
	second, _ := store.Read(ctx)

	if err := store.Write(ctx, first); err != nil {
		t.Fatalf("first Write() failed: %v", err)
	}
	err := store.Write(ctx, second)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale Write() error = %v, want ErrVersionConflict", err)
	}
	if second.Version != 0 {
		t.Errorf("failed write must not bump the version, got %d", second.Version)
	}
}

func TestFileDocumentStore_ReadReturnsCopies(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	doc, _ := store.Read(ctx)
	if err := store.Write(ctx, doc); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	a, _ := store.Read(ctx)
	a.Properties = nil
	b, _ := store.Read(ctx)
	if len(b.Properties) == 0 {
		t.Error("mutating one read leaked into the next")
	}
}
