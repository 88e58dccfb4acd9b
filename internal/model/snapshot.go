package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one point-in-time set of synthetic balance sheet figures.
// Monetary fields are always rounded to 2 decimal places.
type Snapshot struct {
	Timestamp          time.Time       `json:"timestamp_utc"`
	CurrentAssets      decimal.Decimal `json:"current_assets"`
	CurrentLiabilities decimal.Decimal `json:"current_liabilities"`
	Inventory          decimal.Decimal `json:"inventory"`
}

// CurrentRatio returns current assets / current liabilities, zero if
// liabilities are zero.
func (s *Snapshot) CurrentRatio() decimal.Decimal {
	if s.CurrentLiabilities.IsZero() {
		return decimal.Zero
	}
	return s.CurrentAssets.DivRound(s.CurrentLiabilities, 4)
}

// QuickRatio returns (current assets - inventory) / current liabilities,
// zero if liabilities are zero.
func (s *Snapshot) QuickRatio() decimal.Decimal {
	if s.CurrentLiabilities.IsZero() {
		return decimal.Zero
	}
	return s.CurrentAssets.Sub(s.Inventory).DivRound(s.CurrentLiabilities, 4)
}
