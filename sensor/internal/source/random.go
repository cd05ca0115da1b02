package source

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Random emits uniformly distributed temperatures on a fixed cadence.
type Random struct {
	interval time.Duration
	lo, hi   float64

	float func() float64 // [0,1), injectable for tests
	now   func() time.Time
}

// NewRandom returns a Random source emitting a value in [lo, hi] every
// interval, starting immediately.
func NewRandom(interval time.Duration, lo, hi float64) *Random {
	return &Random{
		interval: interval,
		lo:       lo,
		hi:       hi,
		float:    rand.Float64, //nolint:gosec // simulation, not crypto
		now:      time.Now,
	}
}

func (s *Random) Run(ctx context.Context, emit EmitFunc) error {
	slog.Info("source: random generator started",
		"interval", s.interval, "min", s.lo, "max", s.hi)

	return tickLoop(ctx, s.interval, func(time.Time) (bool, error) {
		emit(ctx, s.next())
		return false, nil
	})
}

// next draws one reading stamped with the current time.
func (s *Random) next() types.Reading {
	v := s.lo + s.float()*(s.hi-s.lo)
	return types.Reading{
		Timestamp: s.now(),
		Value:     math.Round(v*100) / 100,
	}
}
