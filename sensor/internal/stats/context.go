package stats

// Context holds a dataset and the strategy used to summarise it.
// A Context is not safe for concurrent use.
type Context struct {
	data     []float64
	strategy Strategy
}

// NewContext returns a Context over data with no strategy selected.
// The slice is read, never modified.
func NewContext(data []float64) *Context {
	return &Context{data: data}
}

// SetStrategy replaces the active strategy. A nil strategy is rejected with
// ErrInvalidStrategy and leaves the previous selection in place.
func (c *Context) SetStrategy(s Strategy) error {
	if s == nil {
		return ErrInvalidStrategy
	}
	c.strategy = s
	return nil
}

// Strategy returns the active strategy, or nil when none is selected.
func (c *Context) Strategy() Strategy {
	return c.strategy
}

// Compute runs the active strategy over the dataset.
func (c *Context) Compute() (Result, error) {
	if c.strategy == nil {
		return nil, ErrNoStrategySelected
	}
	return c.strategy.Compute(c.data)
}
