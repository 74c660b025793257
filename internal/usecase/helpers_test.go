package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"propshare/internal/domain"
	"propshare/internal/repository"
)

const testPropertyID = "prop-test-tower"

var t0 = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testClock is a manually advanced time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyStore wraps a store and fails writes on demand.
type flakyStore struct {
	domain.DocumentStore
	mu        sync.Mutex
	failWrite bool
	writes    int
}

func (f *flakyStore) Write(ctx context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errors.New("disk full")
	}
	f.writes++
	return f.DocumentStore.Write(ctx, doc)
}

func (f *flakyStore) setFailWrite(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite = v
}

func (f *flakyStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type testEnv struct {
	path     string
	store    *flakyStore
	writer   *DocumentWriter
	clock    *testClock
	ledger   *LedgerService
	accounts *AccountService
	notifier *recordingNotifier
}

type recordingNotifier struct {
	mu        sync.Mutex
	requests  []domain.WithdrawalRequest
	decisions []domain.WithdrawalRequest
}

func (n *recordingNotifier) SendWithdrawalRequest(_ domain.User, req domain.WithdrawalRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, req)
	return nil
}

func (n *recordingNotifier) SendWithdrawalDecision(_ domain.User, req domain.WithdrawalRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, req)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.json")
	fileStore, err := repository.NewFileDocumentStore(path)
	if err != nil {
		t.Fatalf("NewFileDocumentStore() failed: %v", err)
	}
	store := &flakyStore{DocumentStore: fileStore}

	clock := &testClock{now: t0}
	writer := NewDocumentWriter(store)
	writer.SetClock(clock.Now)

	notifier := &recordingNotifier{}
	accounts := NewAccountService(writer)
	accounts.SetHashCost(bcrypt.MinCost)

	env := &testEnv{
		path:     path,
		store:    store,
		writer:   writer,
		clock:    clock,
		ledger:   NewLedgerService(writer, notifier, nil),
		accounts: accounts,
		notifier: notifier,
	}

	// 100k property split in 1000 shares returning 0.1% a day
	err = writer.Update(context.Background(), func(doc *domain.Document, _ time.Time) (bool, error) {
		doc.Properties = append(doc.Properties, domain.Property{
			ID:            testPropertyID,
			Name:          "Test Tower",
			Price:         dec("100000"),
			MinInvestment: dec("100"),
			TotalShares:   1000,
			DailyReturn:   dec("0.001"),
		})
		return true, nil
	})
	if err != nil {
		t.Fatalf("seeding property failed: %v", err)
	}
	return env
}

func (e *testEnv) register(t *testing.T, email, referralCode string) *domain.User {
	t.Helper()
	user, err := e.accounts.Register(context.Background(), RegisterInput{
		Name:         "User " + email,
		Email:        email,
		Password:     "secret123",
		ReferralCode: referralCode,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return user
}

func (e *testEnv) fund(t *testing.T, userID uuid.UUID, amount string) {
	t.Helper()
	if _, err := e.ledger.Deposit(context.Background(), userID, dec(amount)); err != nil {
		t.Fatalf("Deposit(%s) failed: %v", amount, err)
	}
}

func (e *testEnv) snapshot(t *testing.T) *domain.Document {
	t.Helper()
	var out *domain.Document
	err := e.writer.View(context.Background(), func(doc *domain.Document, _ time.Time) error {
		out = doc
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
	return out
}

func assertDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}
