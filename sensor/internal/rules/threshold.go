package rules

import "github.com/obsidianstack/tempwatch/pkg/types"

// TemperatureThreshold is the exclusive upper bound for the latest reading.
const TemperatureThreshold = 32.0

// ThresholdRule fires when the most recent value is strictly above the
// threshold.
type ThresholdRule struct {
	threshold float64
}

// NewThresholdRule returns a ThresholdRule using TemperatureThreshold.
func NewThresholdRule() *ThresholdRule {
	return &ThresholdRule{threshold: TemperatureThreshold}
}

func (r *ThresholdRule) Name() string { return "threshold" }

func (r *ThresholdRule) Evaluate(values []float64) (types.Event, bool, error) {
	if len(values) == 0 {
		return nil, false, nil
	}
	latest := values[len(values)-1]
	if latest <= r.threshold {
		return nil, false, nil
	}
	return types.ThresholdAlert{Value: latest, Threshold: r.threshold}, true, nil
}
