package sampler

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"ratiofeed/internal/model"
)

// Sampling parameters for a plausible small-business balance sheet.
const (
	logNormalMu    = 11.0
	logNormalSigma = 0.35

	minAssets = 50_000.0
	maxAssets = 250_000.0

	minInventoryProp = 0.10
	maxInventoryProp = 0.60

	minLiabilityProp = 0.30
	maxLiabilityProp = 1.10

	liabilityFloor = 1.0
)

// Sampler draws plausible financial snapshots from a random source.
type Sampler struct {
	rng *rand.Rand
}

// New creates a Sampler. A zero seed means seed from the clock.
func New(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

// NewWithRand creates a Sampler over an explicit random source.
func NewWithRand(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Generate draws one snapshot. It always succeeds: every output is
// clamped into its valid range by construction.
func (s *Sampler) Generate() model.Snapshot {
	assets := math.Exp(logNormalMu + logNormalSigma*s.rng.NormFloat64())
	invProp := uniform(s.rng, minInventoryProp, maxInventoryProp)
	liabProp := uniform(s.rng, minLiabilityProp, maxLiabilityProp)
	return compose(assets, invProp, liabProp, time.Now().UTC())
}

// compose turns raw draws into a valid snapshot. Inventory is capped at
// current assets (never raised) and liabilities floored at 1.0 (never
// lowered), regardless of the proportions drawn.
func compose(assets, invProp, liabProp float64, ts time.Time) model.Snapshot {
	assets = clamp(assets, minAssets, maxAssets)
	inventory := math.Min(invProp*assets, assets)
	liabilities := math.Max(liabProp*assets, liabilityFloor)

	return model.Snapshot{
		Timestamp:          ts.Truncate(time.Second),
		CurrentAssets:      decimal.NewFromFloat(assets).Round(2),
		CurrentLiabilities: decimal.NewFromFloat(liabilities).Round(2),
		Inventory:          decimal.NewFromFloat(inventory).Round(2),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
