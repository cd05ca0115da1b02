package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Replay plays back recorded readings from a CSV file, one per tick.
//
// Each record is "timestamp,value" with an ISO-8601 timestamp. Blank lines,
// lines starting with '#' and a leading "timestamp,value" header are skipped.
type Replay struct {
	path     string
	interval time.Duration
}

// NewReplay returns a Replay reading path and emitting every interval.
// An interval <= 0 replays as fast as the pipeline accepts readings.
func NewReplay(path string, interval time.Duration) *Replay {
	return &Replay{path: path, interval: interval}
}

func (s *Replay) Run(ctx context.Context, emit EmitFunc) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("source: replay: open: %w", err)
	}
	defer f.Close()

	readings, err := ParseReadings(f)
	if err != nil {
		return fmt.Errorf("source: replay %s: %w", s.path, err)
	}
	slog.Info("source: replay started", "path", s.path, "readings", len(readings))

	i := 0
	return tickLoop(ctx, s.interval, func(time.Time) (bool, error) {
		if i >= len(readings) {
			slog.Info("source: replay finished", "path", s.path)
			return true, nil
		}
		emit(ctx, readings[i])
		i++
		return false, nil
	})
}

// ParseReadings decodes "timestamp,value" CSV records. Timestamps must not
// decrease from one record to the next.
func ParseReadings(r io.Reader) ([]types.Reading, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var (
		out  []types.Reading
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "timestamp") {
			continue
		}

		ts, err := iso8601.ParseString(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("record %d: timestamp: %w", line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("record %d: value: %w", line, err)
		}
		if n := len(out); n > 0 && ts.Before(out[n-1].Timestamp) {
			return nil, fmt.Errorf("record %d: timestamp %s before previous %s",
				line, ts.Format(time.RFC3339), out[n-1].Timestamp.Format(time.RFC3339))
		}
		out = append(out, types.Reading{Timestamp: ts, Value: v})
	}
}
