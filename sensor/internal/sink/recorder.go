package sink

import (
	"context"
	"sync"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// DefaultRecorderSize is the number of records kept when no size is given.
const DefaultRecorderSize = 200

// Recorder is a thread-safe in-memory sink holding the most recent records,
// oldest first. When full, the oldest record is dropped.
type Recorder struct {
	mu      sync.RWMutex
	size    int
	records []types.Record
}

// NewRecorder creates a Recorder keeping at most size records.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = DefaultRecorderSize
	}
	return &Recorder{size: size}
}

func (r *Recorder) Emit(_ context.Context, rec types.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if len(r.records) > r.size {
		r.records = r.records[len(r.records)-r.size:]
	}
	return nil
}

// Records returns a copy of the held records, oldest first.
func (r *Recorder) Records() []types.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Kinds returns the event kinds of the held records in order.
func (r *Recorder) Kinds() []types.EventKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.EventKind, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Event.Kind()
	}
	return out
}

// BySubscriber returns the held records emitted by the named subscriber.
func (r *Recorder) BySubscriber(name string) []types.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []types.Record
	for _, rec := range r.records {
		if rec.Subscriber == name {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns the number of held records.
func (r *Recorder) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
