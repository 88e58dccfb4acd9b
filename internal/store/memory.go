package store

import (
	"context"
	"sync"

	"ratiofeed/internal/model"
)

// MemoryStore is an in-process latest-value store used when no external
// backend is configured, and in tests. It keeps the encoded row so reads
// go through the same decode path as the tabular backends.
type MemoryStore struct {
	mu  sync.Mutex
	row []string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Write(_ context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.row = EncodeRow(snap)
	return nil
}

func (m *MemoryStore) ReadLatest(_ context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return nil, nil
	}
	return DecodeRow(m.row)
}

func (m *MemoryStore) Close() error { return nil }
