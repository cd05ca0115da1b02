package sink

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// LogSink writes records as structured log lines. Summaries are logged at
// Info, alerts at Warn.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a LogSink writing to logger, or to slog.Default when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(ctx context.Context, rec types.Record) error {
	attrs := []any{
		"id", rec.ID,
		"subscriber", rec.Subscriber,
		"reading_at", rec.Reading.Timestamp,
		"reading", rec.Reading.Value,
	}
	if rec.Sensor != "" {
		attrs = append(attrs, "sensor", rec.Sensor)
	}

	switch ev := rec.Event.(type) {
	case types.SummaryEvent:
		attrs = append(attrs, "mean", ev.Mean, "stddev", ev.StdDev, "samples", ev.Samples)
		names := make([]string, 0, len(ev.Extra))
		for name := range ev.Extra {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			attrs = append(attrs, name, ev.Extra[name])
		}
		s.logger.InfoContext(ctx, "window summary", attrs...)

	case types.ThresholdAlert:
		attrs = append(attrs, "value", ev.Value, "threshold", ev.Threshold)
		s.logger.WarnContext(ctx, "alert: temperature above threshold", attrs...)

	case types.GrowthAlert:
		attrs = append(attrs, "delta", ev.Delta, "lookback", ev.Lookback, "threshold", ev.Threshold)
		s.logger.WarnContext(ctx, "alert: temperature rising fast", attrs...)

	default:
		return fmt.Errorf("sink: log: unsupported event %T", rec.Event)
	}
	return nil
}
