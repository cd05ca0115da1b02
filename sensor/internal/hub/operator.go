package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/rules"
	"github.com/obsidianstack/tempwatch/sensor/internal/sink"
)

// Operator is a subscriber that keeps its own reading history and evaluates
// its own rule chain on every new reading.
type Operator struct {
	name   string
	sensor string
	chain  *rules.Chain
	sink   sink.Sink
	newID  func() string

	mu      sync.Mutex
	history []types.Reading
}

// OperatorOption configures an Operator.
type OperatorOption func(*Operator)

// WithChain replaces the default rule chain.
func WithChain(c *rules.Chain) OperatorOption {
	return func(o *Operator) { o.chain = c }
}

// WithSensor labels every emitted record with the sensor name.
func WithSensor(name string) OperatorOption {
	return func(o *Operator) { o.sensor = name }
}

// NewOperator returns an Operator named name that hands its records to s.
// Each Operator gets an independent chain; chains are never shared.
// It panics if s is nil.
func NewOperator(name string, s sink.Sink, opts ...OperatorOption) *Operator {
	if s == nil {
		panic("hub: NewOperator " + name + ": nil sink")
	}
	o := &Operator{
		name:  name,
		chain: rules.Default(),
		sink:  s,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Operator) Name() string { return o.name }

// OnReading appends r to the history, evaluates the chain over every value
// seen so far and emits one record per produced event. Rule and sink errors
// are joined; events from healthy rules are still emitted.
func (o *Operator) OnReading(ctx context.Context, r types.Reading) error {
	o.mu.Lock()
	o.history = append(o.history, r)
	values := types.Values(o.history)
	o.mu.Unlock()

	events, evalErr := o.chain.Evaluate(values)

	errs := []error{evalErr}
	for _, ev := range events {
		rec := types.Record{
			ID:         o.newID(),
			Sensor:     o.sensor,
			Subscriber: o.name,
			Reading:    r,
			Severity:   types.SeverityOf(ev),
			Event:      ev,
		}
		if err := o.sink.Emit(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("emit %s: %w", ev.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

// History returns a copy of the readings received so far, oldest first.
func (o *Operator) History() []types.Reading {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.Reading, len(o.history))
	copy(out, o.history)
	return out
}

// Len returns the number of readings received so far.
func (o *Operator) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.history)
}
