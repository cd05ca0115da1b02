package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/stats"
)

// --- ThresholdRule ---

func TestThresholdRule(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		fire   bool
	}{
		{"empty history", nil, false},
		{"below", []float64{31.99}, false},
		{"exactly at threshold", []float64{32.0}, false},
		{"just above", []float64{32.01}, true},
		{"only latest counts", []float64{40, 20}, false},
		{"latest above after low values", []float64{10, 11, 33}, true},
	}
	r := NewThresholdRule()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, fired, err := r.Evaluate(tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.fire, fired)
			if tc.fire {
				alert := ev.(types.ThresholdAlert)
				assert.Equal(t, tc.values[len(tc.values)-1], alert.Value)
				assert.Equal(t, TemperatureThreshold, alert.Threshold)
			} else {
				assert.Nil(t, ev)
			}
		})
	}
}

// --- GrowthRule ---

func TestGrowthRule(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		fire      bool
		wantDelta float64
	}{
		{"empty", nil, false, 0},
		{"five readings never fire", []float64{0, 0, 0, 0, 50}, false, 0},
		{"delta exactly 10 fires", []float64{20, 0, 0, 0, 0, 30}, true, 10},
		{"delta 9.99 does not fire", []float64{20, 0, 0, 0, 0, 29.99}, false, 0},
		{"two-decimal rise of exactly 10 fires", []float64{25.3, 26, 27, 28, 29, 35.3}, true, 10},
		{"two-decimal rise of 9.99 does not fire", []float64{25.31, 26, 27, 28, 29, 35.3}, false, 0},
		{"compares with sixth from end", []float64{0, 20, 21, 22, 23, 24, 31}, true, 11},
		{"older spike ignored", []float64{0, 25, 25, 25, 25, 25, 25}, false, 0},
		{"drop does not fire", []float64{35, 30, 25, 20, 15, 10}, false, 0},
	}
	r := NewGrowthRule()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, fired, err := r.Evaluate(tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.fire, fired)
			if tc.fire {
				alert := ev.(types.GrowthAlert)
				assert.InDelta(t, tc.wantDelta, alert.Delta, 1e-9)
				assert.Equal(t, GrowthLookback, alert.Lookback)
			}
		})
	}
}

// --- SummaryRule ---

func TestSummaryRule_WindowClampsAtTwelve(t *testing.T) {
	// 8 readings at 100 followed by 12 readings at 20: only the last 12 count.
	values := make([]float64, 0, 20)
	for i := 0; i < 8; i++ {
		values = append(values, 100)
	}
	for i := 0; i < 12; i++ {
		values = append(values, 20)
	}

	ev, fired, err := NewSummaryRule().Evaluate(values)
	require.NoError(t, err)
	require.True(t, fired)
	sum := ev.(types.SummaryEvent)
	assert.Equal(t, 20.0, sum.Mean)
	assert.Equal(t, 0.0, sum.StdDev)
	assert.Equal(t, SummaryWindow, sum.Samples)
	assert.Len(t, values, 20, "history must not be trimmed")
}

func TestSummaryRule_ShortHistoryUsesAll(t *testing.T) {
	ev, fired, err := NewSummaryRule().Evaluate([]float64{10, 20})
	require.NoError(t, err)
	require.True(t, fired)
	sum := ev.(types.SummaryEvent)
	assert.Equal(t, 15.0, sum.Mean)
	assert.Equal(t, 5.0, sum.StdDev)
	assert.Equal(t, 2, sum.Samples)
	assert.Nil(t, sum.Extra)
}

func TestSummaryRule_FiresEveryCall(t *testing.T) {
	r := NewSummaryRule()
	for i := 0; i < 3; i++ {
		_, fired, err := r.Evaluate([]float64{21, 21, 21})
		require.NoError(t, err)
		assert.True(t, fired, "call %d", i)
	}
}

func TestSummaryRule_Extras(t *testing.T) {
	r := NewSummaryRule(stats.Median{}, stats.MinMax{})
	ev, _, err := r.Evaluate([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	sum := ev.(types.SummaryEvent)
	assert.Equal(t, []float64{2.5}, sum.Extra[stats.NameMedian])
	assert.Equal(t, []float64{1, 4}, sum.Extra[stats.NameMinMax])
}

func TestSummaryRule_Empty(t *testing.T) {
	_, fired, err := NewSummaryRule().Evaluate([]float64{})
	require.ErrorIs(t, err, stats.ErrEmptyInput)
	assert.False(t, fired)
}

func TestWindow(t *testing.T) {
	v := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, []float64{3, 4, 5}, Window(v, 3))
	assert.Equal(t, v, Window(v, 5))
	assert.Equal(t, v, Window(v, 12))
}
