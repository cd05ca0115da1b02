package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/stats"
)

// stubRule records calls and returns a fixed outcome.
type stubRule struct {
	name  string
	ev    types.Event
	fire  bool
	err   error
	calls [][]float64
}

func (s *stubRule) Name() string { return s.name }

func (s *stubRule) Evaluate(values []float64) (types.Event, bool, error) {
	s.calls = append(s.calls, values)
	return s.ev, s.fire, s.err
}

func TestChain_RunsEveryRuleInOrder(t *testing.T) {
	a := &stubRule{name: "a", ev: types.ThresholdAlert{Value: 1}, fire: true}
	b := &stubRule{name: "b"}
	c := &stubRule{name: "c", ev: types.GrowthAlert{Delta: 3}, fire: true}

	chain := NewChain(a, b, c)
	values := []float64{1, 2, 3}

	events, err := chain.Evaluate(values)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, types.KindThreshold, events[0].Kind())
	assert.Equal(t, types.KindGrowth, events[1].Kind())

	for _, r := range []*stubRule{a, b, c} {
		require.Len(t, r.calls, 1, "rule %s", r.name)
		assert.Equal(t, values, r.calls[0], "rule %s saw a different history", r.name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, chain.Names())
}

func TestChain_ErrorDoesNotShortCircuit(t *testing.T) {
	boom := errors.New("boom")
	a := &stubRule{name: "a", err: boom}
	b := &stubRule{name: "b", ev: types.ThresholdAlert{Value: 40}, fire: true}

	events, err := NewChain(a, b).Evaluate([]float64{40})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "rule a")
	require.Len(t, events, 1)
	assert.Len(t, b.calls, 1)
}

func TestChain_EmptyChain(t *testing.T) {
	events, err := NewChain().Evaluate([]float64{1})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDefault_Order(t *testing.T) {
	assert.Equal(t, []string{"summary", "threshold", "growth"}, Default().Names())
}

// TestDefault_RampScenario feeds 10,15,...,35 one reading at a time, the way a
// subscriber re-evaluates its growing history on every tick.
func TestDefault_RampScenario(t *testing.T) {
	chain := Default()
	ramp := []float64{10, 15, 20, 25, 30, 35}

	for i := 1; i <= len(ramp); i++ {
		events, err := chain.Evaluate(ramp[:i])
		require.NoError(t, err)
		require.NotEmpty(t, events)
		require.Equal(t, types.KindSummary, events[0].Kind(), "tick %d: summary must come first", i)

		if i < len(ramp) {
			assert.Len(t, events, 1, "tick %d: only the summary should fire", i)
			continue
		}

		require.Len(t, events, 3)
		sum := events[0].(types.SummaryEvent)
		assert.Equal(t, 22.5, sum.Mean)
		assert.Equal(t, 8.54, sum.StdDev)
		assert.Equal(t, 6, sum.Samples)

		th := events[1].(types.ThresholdAlert)
		assert.Equal(t, 35.0, th.Value)

		gr := events[2].(types.GrowthAlert)
		assert.Equal(t, 25.0, gr.Delta)
	}
}

func TestDefault_EmptyHistorySurfacesSummaryError(t *testing.T) {
	events, err := Default().Evaluate(nil)
	require.ErrorIs(t, err, stats.ErrEmptyInput)
	assert.Empty(t, events)
}
