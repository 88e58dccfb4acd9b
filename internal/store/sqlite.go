package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"ratiofeed/internal/model"
)

// SQLiteStore keeps the latest snapshot in a single-row SQLite table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so UI reads don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	// Single-row table: id is pinned to 1 and every write replaces it.
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS latest_snapshot (
		id                  INTEGER PRIMARY KEY CHECK (id = 1),
		timestamp_utc       TEXT NOT NULL,
		current_assets      TEXT NOT NULL,
		current_liabilities TEXT NOT NULL,
		inventory           TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Write(ctx context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := EncodeRow(snap)
	_, err := s.db.ExecContext(ctx, `INSERT INTO latest_snapshot
		(id, timestamp_utc, current_assets, current_liabilities, inventory)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp_utc=excluded.timestamp_utc,
			current_assets=excluded.current_assets,
			current_liabilities=excluded.current_liabilities,
			inventory=excluded.inventory`,
		row[0], row[1], row[2], row[3],
	)
	if err != nil {
		return fmt.Errorf("upsert latest snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadLatest(ctx context.Context) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]string, 4)
	err := s.db.QueryRowContext(ctx, `SELECT timestamp_utc, current_assets, current_liabilities, inventory
		FROM latest_snapshot WHERE id = 1`).
		Scan(&cells[0], &cells[1], &cells[2], &cells[3])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return DecodeRow(cells)
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
