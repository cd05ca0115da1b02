package source

import (
	"context"
	"fmt"
	"time"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/config"
)

// EmitFunc receives each reading. It is called from the source's goroutine
// and the next reading is not produced until it returns.
type EmitFunc func(ctx context.Context, r types.Reading)

// Source produces readings until ctx is cancelled or the input ends.
// Run returns nil on cancellation.
type Source interface {
	Run(ctx context.Context, emit EmitFunc) error
}

// New returns the Source described by cfg.
func New(cfg config.Source) (Source, error) {
	switch cfg.Type {
	case config.SourceRandom:
		return NewRandom(cfg.Interval, cfg.Min, cfg.Max), nil
	case config.SourceReplay:
		return NewReplay(cfg.Path, cfg.Interval), nil
	case config.SourceScrape:
		return NewScrape(cfg)
	default:
		return nil, fmt.Errorf("source: unsupported type %q", cfg.Type)
	}
}

// tickLoop calls fn immediately and then on every tick until ctx is
// cancelled or fn reports done. An interval <= 0 runs fn back to back.
func tickLoop(ctx context.Context, interval time.Duration, fn func(now time.Time) (done bool, err error)) error {
	var ticks <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		ticks = t.C
	}

	now := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}
		done, err := fn(now)
		if err != nil || done {
			return err
		}

		if ticks == nil {
			now = time.Now()
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case now = <-ticks:
		}
	}
}
