package emitter

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"ratiofeed/internal/model"
	"ratiofeed/internal/sampler"
	"ratiofeed/internal/store"
)

func TestIsDue(t *testing.T) {
	interval := 30 * time.Second

	tests := []struct {
		name string
		last int64 // unix seconds
		now  int64
		want bool
	}{
		{"exactly one interval elapsed", 0, 30, true},
		{"only 20s elapsed", 100, 120, false},
		{"one second short", 0, 29, false},
		{"well past due", 0, 300, true},
		{"no time elapsed", 50, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDue(time.Unix(tt.now, 0), time.Unix(tt.last, 0), interval)
			if got != tt.want {
				t.Errorf("IsDue(now=%d, last=%d) = %v, want %v", tt.now, tt.last, got, tt.want)
			}
		})
	}
}

func TestIsDue_ZeroLastIsAlwaysDue(t *testing.T) {
	if !IsDue(time.Now(), time.Time{}, 30*time.Second) {
		t.Error("expected the first tick of a session to be due")
	}
}

// failingStore rejects every write.
type failingStore struct{}

func (failingStore) Write(context.Context, model.Snapshot) error {
	return errors.New("service unreachable")
}
func (failingStore) ReadLatest(context.Context) (*model.Snapshot, error) { return nil, nil }
func (failingStore) Close() error                                        { return nil }

func newTestEmitter(st store.Store) *Emitter {
	return New(st, sampler.NewWithRand(rand.New(rand.NewSource(42))))
}

func TestTick_GeneratesWhenDue(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	e := newTestEmitter(mem)

	base := time.Unix(1_000_000, 0)
	e.now = func() time.Time { return base }

	if err := e.Tick(ctx); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	snap, err := mem.ReadLatest(ctx)
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot after the first tick")
	}
	if got := e.Session().LastGeneratedAt; !got.Equal(base) {
		t.Errorf("last generated = %v, want %v", got, base)
	}
}

func TestTick_SkipsWithinInterval(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	e := newTestEmitter(mem)

	base := time.Unix(1_000_000, 0)
	now := base
	e.now = func() time.Time { return now }

	if err := e.Tick(ctx); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	first, _ := mem.ReadLatest(ctx)

	now = base.Add(20 * time.Second)
	if err := e.Tick(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	second, _ := mem.ReadLatest(ctx)
	if !first.Timestamp.Equal(second.Timestamp) ||
		!first.CurrentAssets.Equal(second.CurrentAssets) {
		t.Error("tick inside the interval must not overwrite the snapshot")
	}

	now = base.Add(30 * time.Second)
	if err := e.Tick(ctx); err != nil {
		t.Fatalf("third tick: %v", err)
	}
	if got := e.Session().LastGeneratedAt; !got.Equal(now) {
		t.Errorf("boundary tick did not generate: last = %v, want %v", got, now)
	}
}

func TestGenerateNow_BypassesGate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	e := newTestEmitter(mem)

	base := time.Unix(1_000_000, 0)
	now := base
	e.now = func() time.Time { return now }

	if err := e.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}
	first, _ := mem.ReadLatest(ctx)

	now = base.Add(5 * time.Second)
	if err := e.GenerateNow(ctx); err != nil {
		t.Fatalf("manual generate: %v", err)
	}
	second, _ := mem.ReadLatest(ctx)
	if first.CurrentAssets.Equal(second.CurrentAssets) &&
		first.Inventory.Equal(second.Inventory) {
		t.Error("manual trigger did not produce a new snapshot")
	}
	if got := e.Session().LastGeneratedAt; !got.Equal(now) {
		t.Errorf("manual trigger did not advance gate state: %v", got)
	}
}

func TestTick_FailedWriteKeepsGateState(t *testing.T) {
	e := newTestEmitter(failingStore{})
	base := time.Unix(1_000_000, 0)
	e.now = func() time.Time { return base }

	if err := e.Tick(context.Background()); err == nil {
		t.Fatal("expected the write failure to surface")
	}
	if !e.Session().LastGeneratedAt.IsZero() {
		t.Error("failed write must not advance the last generation time")
	}
}

func TestStatus_CountdownAndProgress(t *testing.T) {
	mem := store.NewMemoryStore()
	e := newTestEmitter(mem)

	base := time.Unix(1_000_000, 0)
	now := base
	e.now = func() time.Time { return now }

	if err := e.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	now = base.Add(12 * time.Second)
	st := e.Status()
	if st.RemainingSeconds != 18 {
		t.Errorf("remaining = %d, want 18", st.RemainingSeconds)
	}
	if got, want := st.Progress, 1-18.0/30.0; got != want {
		t.Errorf("progress = %f, want %f", got, want)
	}

	now = base.Add(2 * time.Minute)
	st = e.Status()
	if st.RemainingSeconds != 0 || st.Progress != 1 {
		t.Errorf("overdue status = %+v, want remaining 0 and progress 1", st)
	}
}
