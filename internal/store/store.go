package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ratiofeed/internal/model"
)

// Column order of the latest-value table. Header row and data row share it.
var Header = []string{"timestamp_utc", "current_assets", "current_liabilities", "inventory"}

// TimestampLayout is RFC 3339 at second precision.
const TimestampLayout = time.RFC3339

// Store is the latest-value persistence capability: one logical record,
// overwritten in place. Write must ensure the header exists before
// overwriting the data row; ReadLatest returns (nil, nil) when no data
// row is present.
type Store interface {
	Write(ctx context.Context, snap model.Snapshot) error
	ReadLatest(ctx context.Context) (*model.Snapshot, error)
	Close() error
}

// EncodeRow renders a snapshot as the four data-row cells, in header order.
func EncodeRow(snap model.Snapshot) []string {
	return []string{
		snap.Timestamp.UTC().Format(TimestampLayout),
		snap.CurrentAssets.StringFixed(2),
		snap.CurrentLiabilities.StringFixed(2),
		snap.Inventory.StringFixed(2),
	}
}

// DecodeRow parses a data row back into a snapshot. A row with fewer than
// four populated cells is the normal "no data yet" condition and decodes
// to (nil, nil); malformed cell contents are an error.
func DecodeRow(cells []string) (*model.Snapshot, error) {
	if len(cells) < 4 {
		return nil, nil
	}
	for _, c := range cells[:4] {
		if c == "" {
			return nil, nil
		}
	}

	ts, err := time.Parse(TimestampLayout, cells[0])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", cells[0], err)
	}
	assets, err := decimal.NewFromString(cells[1])
	if err != nil {
		return nil, fmt.Errorf("parse current_assets %q: %w", cells[1], err)
	}
	liabilities, err := decimal.NewFromString(cells[2])
	if err != nil {
		return nil, fmt.Errorf("parse current_liabilities %q: %w", cells[2], err)
	}
	inventory, err := decimal.NewFromString(cells[3])
	if err != nil {
		return nil, fmt.Errorf("parse inventory %q: %w", cells[3], err)
	}

	return &model.Snapshot{
		Timestamp:          ts.UTC(),
		CurrentAssets:      assets,
		CurrentLiabilities: liabilities,
		Inventory:          inventory,
	}, nil
}
