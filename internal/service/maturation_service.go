package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// MaturationLedger is the ledger operation the sweeper drives
type MaturationLedger interface {
	SweepMaturations(ctx context.Context) (int, error)
}

// TextNotifier posts a free-form operator message
type TextNotifier interface {
	SendText(text string) error
}

// SweepStatus describes the most recent sweep
type SweepStatus struct {
	LastRun       time.Time     `json:"lastRun"`
	LastDuration  time.Duration `json:"lastDuration"`
	LastReleased  int           `json:"lastReleased"`
	LastError     string        `json:"lastError,omitempty"`
	TotalRuns     int           `json:"totalRuns"`
	TotalReleased int           `json:"totalReleased"`
}

// MaturationService releases matured investments across all users.
// Overlapping runs are skipped rather than queued.
type MaturationService struct {
	ledger   MaturationLedger
	notifier TextNotifier

	running sync.Mutex
	mu      sync.RWMutex
	status  SweepStatus
}

// NewMaturationService creates a new MaturationService. notifier may be nil.
func NewMaturationService(ledger MaturationLedger, notifier TextNotifier) *MaturationService {
	return &MaturationService{ledger: ledger, notifier: notifier}
}

// Sweep runs one maturation pass and returns the number of released investments
func (s *MaturationService) Sweep(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		log.Println("[INFO] Maturation sweep already running, skipping")
		return 0, nil
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	released, err := s.ledger.SweepMaturations(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.status.LastRun = start
	s.status.LastDuration = elapsed
	s.status.LastReleased = released
	s.status.TotalRuns++
	s.status.TotalReleased += released
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("failed to sweep maturations: %w", err)
	}

	if released > 0 {
		log.Printf("[OK] Maturation sweep released %d investment(s) in %s", released, elapsed)
		if s.notifier != nil {
			if err := s.notifier.SendText(fmt.Sprintf("🏁 Maturation sweep released %d investment(s)", released)); err != nil {
				log.Printf("[WARN] Failed to send sweep notification: %v", err)
			}
		}
	}

	return released, nil
}

// Status returns a copy of the last sweep status
func (s *MaturationService) Status() SweepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
