package rules

import (
	"errors"
	"fmt"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Rule inspects the value history (oldest first, newest last) and optionally
// produces an event. A short history is never an error for a rule whose
// condition needs more data; it simply does not fire.
type Rule interface {
	Name() string
	Evaluate(values []float64) (ev types.Event, fired bool, err error)
}

// Chain is an ordered list of rules. The order is fixed at construction and
// defines the order of the events returned by Evaluate.
type Chain struct {
	rules []Rule
}

// NewChain returns a Chain that evaluates rules in the given order.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: append([]Rule(nil), rules...)}
}

// Default returns the standard chain: summary, threshold, growth.
func Default() *Chain {
	return NewChain(NewSummaryRule(), NewThresholdRule(), NewGrowthRule())
}

// Evaluate runs every rule against values. A failing rule does not prevent
// later rules from running; its error is joined into the returned error and
// the events of the other rules are still returned.
func (c *Chain) Evaluate(values []float64) ([]types.Event, error) {
	var (
		events []types.Event
		errs   []error
	)
	for _, r := range c.rules {
		ev, fired, err := r.Evaluate(values)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", r.Name(), err))
			continue
		}
		if fired {
			events = append(events, ev)
		}
	}
	return events, errors.Join(errs...)
}

// Names returns the rule names in evaluation order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Name()
	}
	return out
}

// Len returns the number of rules in the chain.
func (c *Chain) Len() int {
	return len(c.rules)
}
