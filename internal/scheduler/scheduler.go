package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"ratiofeed/internal/emitter"
)

// Ticks fire every second; the emitter's gate decides whether a tick
// actually generates.
const tickSpec = "@every 1s"

// Scheduler drives the emitter's tick loop.
type Scheduler struct {
	Cron    *cron.Cron
	Emitter *emitter.Emitter
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, em *emitter.Emitter) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Emitter: em,
		Ctx:     ctx,
	}
}

// Register registers the periodic tick.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(tickSpec, s.tick); err != nil {
		return fmt.Errorf("register tick: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) tick() {
	if err := s.Emitter.Tick(s.Ctx); err != nil {
		log.Printf("[ERROR] tick: %v", err)
	}
}
