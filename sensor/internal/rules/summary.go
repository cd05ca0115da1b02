package rules

import (
	"fmt"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/stats"
)

// SummaryWindow is the number of trailing readings summarised per call.
// At a 5s cadence this covers the last minute.
const SummaryWindow = 12

// SummaryRule computes mean and standard deviation over the trailing window
// and emits a SummaryEvent on every call.
type SummaryRule struct {
	// Extras lists additional strategies whose results are attached to the
	// event's Extra map, keyed by strategy name.
	Extras []stats.Strategy
}

// NewSummaryRule returns a SummaryRule, optionally reporting extra statistics.
func NewSummaryRule(extras ...stats.Strategy) *SummaryRule {
	return &SummaryRule{Extras: extras}
}

func (r *SummaryRule) Name() string { return "summary" }

// Evaluate fails with stats.ErrEmptyInput when values is empty.
func (r *SummaryRule) Evaluate(values []float64) (types.Event, bool, error) {
	window := Window(values, SummaryWindow)

	sc := stats.NewContext(window)
	if err := sc.SetStrategy(stats.MeanStdDev{}); err != nil {
		return nil, false, err
	}
	res, err := sc.Compute()
	if err != nil {
		return nil, false, err
	}
	ms, ok := res.(stats.MeanStdDevResult)
	if !ok {
		return nil, false, fmt.Errorf("unexpected result type %T", res)
	}

	ev := types.SummaryEvent{
		Mean:    ms.Mean,
		StdDev:  ms.StdDev,
		Samples: len(window),
	}

	if len(r.Extras) > 0 {
		ev.Extra = make(map[string][]float64, len(r.Extras))
		for _, s := range r.Extras {
			if err := sc.SetStrategy(s); err != nil {
				return nil, false, err
			}
			extra, err := sc.Compute()
			if err != nil {
				return nil, false, err
			}
			ev.Extra[s.Name()] = extra.Values()
		}
	}

	return ev, true, nil
}

// Window returns the trailing size values (all of them when shorter).
// The result aliases values; callers must not modify it.
func Window(values []float64, size int) []float64 {
	if len(values) <= size {
		return values
	}
	return values[len(values)-size:]
}
