package emitter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ratiofeed/internal/sampler"
	"ratiofeed/internal/store"
)

// Interval is the fixed generation cadence.
const Interval = 30 * time.Second

// IsDue reports whether enough time has elapsed since the last generation
// to trigger another one. The boundary is inclusive: exactly interval
// elapsed is due.
func IsDue(now, last time.Time, interval time.Duration) bool {
	return now.Sub(last) >= interval
}

// Session is the state of one emitter session. LastGeneratedAt is zero at
// session start, so the first tick is always due.
type Session struct {
	ID              uuid.UUID
	StartedAt       time.Time
	LastGeneratedAt time.Time
}

// Status is a point-in-time view of the session for rendering.
type Status struct {
	SessionID        string
	LastGeneratedAt  time.Time
	RemainingSeconds int
	Progress         float64
}

// Emitter owns the generate-and-persist cycle: on each due tick it samples
// a fresh snapshot and overwrites the store's single record.
type Emitter struct {
	mu      sync.Mutex
	store   store.Store
	sampler *sampler.Sampler
	session Session
	now     func() time.Time
}

// New creates an Emitter with a fresh session.
func New(st store.Store, sm *sampler.Sampler) *Emitter {
	e := &Emitter{
		store:   st,
		sampler: sm,
		now:     time.Now,
	}
	e.session = Session{
		ID:        uuid.New(),
		StartedAt: e.now(),
	}
	return e
}

// Tick runs one pass: if the interval has elapsed since the last
// generation, sample and write a new snapshot. A write failure surfaces
// and leaves the gate state untouched, so the next tick retries.
func (e *Emitter) Tick(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if !IsDue(now, e.session.LastGeneratedAt, Interval) {
		return nil
	}
	return e.generate(ctx, now)
}

// GenerateNow forces a generation cycle immediately, bypassing the gate.
func (e *Emitter) GenerateNow(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generate(ctx, e.now())
}

func (e *Emitter) generate(ctx context.Context, now time.Time) error {
	snap := e.sampler.Generate()
	if err := e.store.Write(ctx, snap); err != nil {
		return fmt.Errorf("write latest snapshot: %w", err)
	}
	e.session.LastGeneratedAt = now
	return nil
}

// Session returns a copy of the session state.
func (e *Emitter) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Status computes the countdown to the next generation and the matching
// progress fraction (1 - remaining/interval).
func (e *Emitter) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := e.now().Sub(e.session.LastGeneratedAt)
	remaining := Interval - elapsed
	if remaining < 0 {
		remaining = 0
	}
	secs := int(remaining / time.Second)

	return Status{
		SessionID:        e.session.ID.String(),
		LastGeneratedAt:  e.session.LastGeneratedAt,
		RemainingSeconds: secs,
		Progress:         1 - float64(secs)/Interval.Seconds(),
	}
}
