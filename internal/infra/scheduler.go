package infra

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper runs one maturation pass over the whole ledger
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	expr    string
}

// NewScheduler creates a new scheduler. expr is a six-field cron expression
// (with seconds).
func NewScheduler(sweeper Sweeper, expr string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		sweeper: sweeper,
		expr:    expr,
	}
}

// Start registers the maturation sweep and starts the cron loop
func (s *Scheduler) Start() error {
	log.Printf("Starting scheduler... [Sweep: %s]", s.expr)

	_, err := s.cron.AddFunc(s.expr, func() {
		if _, err := s.sweeper.Sweep(context.Background()); err != nil {
			log.Printf("[ERROR] Scheduled maturation sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[OK] Scheduler started successfully")
	return nil
}

// Stop stops the scheduler gracefully and waits for a running sweep
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Println("[OK] Scheduler stopped")
}
