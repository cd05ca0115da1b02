package sink

import (
	"context"
	"errors"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Sink receives every record emitted by a subscriber.
type Sink interface {
	Emit(ctx context.Context, rec types.Record) error
}

// Func adapts a plain function to the Sink interface.
type Func func(ctx context.Context, rec types.Record) error

func (f Func) Emit(ctx context.Context, rec types.Record) error { return f(ctx, rec) }

// Multi delivers each record to every sink in order. A failing sink does not
// stop delivery to the rest; all errors are joined.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, rec types.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
