package rules

import (
	"math"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Growth alert constants. The latest value is compared with the value
// GrowthLookback positions from the end (itself counted), which at a 5s
// cadence spans 30 seconds.
const (
	GrowthLookback = 6
	GrowthDelta    = 10.0
)

// GrowthRule fires when the temperature rose by at least GrowthDelta across
// the lookback. Histories shorter than the lookback never fire. The delta is
// rounded to 2 decimals, the resolution of the readings, before comparing.
type GrowthRule struct {
	lookback int
	delta    float64
}

// NewGrowthRule returns a GrowthRule using GrowthLookback and GrowthDelta.
func NewGrowthRule() *GrowthRule {
	return &GrowthRule{lookback: GrowthLookback, delta: GrowthDelta}
}

func (r *GrowthRule) Name() string { return "growth" }

func (r *GrowthRule) Evaluate(values []float64) (types.Event, bool, error) {
	n := len(values)
	if n < r.lookback {
		return nil, false, nil
	}
	d := math.Round((values[n-1]-values[n-r.lookback])*100) / 100
	if d < r.delta {
		return nil, false, nil
	}
	return types.GrowthAlert{Delta: d, Lookback: r.lookback, Threshold: r.delta}, true, nil
}
