package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// Registry errors.
var (
	ErrDuplicateSubscriber = errors.New("hub: subscriber already registered")
	ErrNotSubscribed       = errors.New("hub: subscriber not registered")
	ErrNilSubscriber       = errors.New("hub: nil subscriber")
)

var tracer = otel.Tracer("github.com/obsidianstack/tempwatch/sensor/internal/hub")

// Subscriber receives every reading published to the hub it is registered
// with. Name identifies the subscriber in the registry.
type Subscriber interface {
	Name() string
	OnReading(ctx context.Context, r types.Reading) error
}

// SubscriberError reports a failed notification of one subscriber.
type SubscriberError struct {
	Name string
	Err  error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %q: %v", e.Name, e.Err)
}

func (e *SubscriberError) Unwrap() error { return e.Err }

// Option configures a Hub.
type Option func(*Hub)

// WithConcurrency makes Publish notify subscribers in parallel.
func WithConcurrency(enabled bool) Option {
	return func(h *Hub) { h.concurrent = enabled }
}

// Hub is the reading publisher. All exported methods are safe for
// concurrent use.
type Hub struct {
	concurrent bool

	mu    sync.RWMutex
	subs  []Subscriber
	index map[string]struct{}
}

// New creates an empty Hub.
func New(opts ...Option) *Hub {
	h := &Hub{index: make(map[string]struct{})}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Subscribe registers s. It fails with ErrNilSubscriber for a nil s and with
// ErrDuplicateSubscriber when a subscriber with the same name is already
// registered.
func (h *Hub) Subscribe(s Subscriber) error {
	if s == nil {
		return ErrNilSubscriber
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	name := s.Name()
	if _, ok := h.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSubscriber, name)
	}
	h.index[name] = struct{}{}
	h.subs = append(h.subs, s)
	return nil
}

// Unsubscribe removes s. It fails with ErrNilSubscriber for a nil s and with
// ErrNotSubscribed when s is not registered.
func (h *Hub) Unsubscribe(s Subscriber) error {
	if s == nil {
		return ErrNilSubscriber
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	name := s.Name()
	if _, ok := h.index[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotSubscribed, name)
	}
	delete(h.index, name)
	for i, sub := range h.subs {
		if sub.Name() == name {
			h.subs = slices.Delete(h.subs, i, i+1)
			break
		}
	}
	return nil
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Names returns the registered subscriber names in registration order.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.subs))
	for i, s := range h.subs {
		out[i] = s.Name()
	}
	return out
}

// Publish notifies every currently registered subscriber of r. It returns
// nil when all notifications succeeded, otherwise the joined
// *SubscriberError values of the ones that failed.
func (h *Hub) Publish(ctx context.Context, r types.Reading) error {
	targets := h.snapshot()

	ctx, span := tracer.Start(ctx, "hub.Publish", trace.WithAttributes(
		attribute.Int("hub.subscribers", len(targets)),
		attribute.Float64("reading.value", r.Value),
	))
	defer span.End()

	var errs []error
	if h.concurrent {
		errs = h.notifyParallel(ctx, targets, r)
	} else {
		errs = h.notifySerial(ctx, targets, r)
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "subscriber failures")
	}
	return err
}

// snapshot copies the registry so the caller can iterate without the lock.
func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Subscriber, len(h.subs))
	copy(out, h.subs)
	return out
}

func (h *Hub) notifySerial(ctx context.Context, targets []Subscriber, r types.Reading) []error {
	var errs []error
	for _, s := range targets {
		if err := notify(ctx, s, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (h *Hub) notifyParallel(ctx context.Context, targets []Subscriber, r types.Reading) []error {
	results := make([]error, len(targets))

	var g errgroup.Group
	for i, s := range targets {
		g.Go(func() error {
			results[i] = notify(ctx, s, r)
			return nil
		})
	}
	_ = g.Wait() // per-subscriber errors live in results

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// notify delivers r to s, converting a panic into an error.
func notify(ctx context.Context, s Subscriber, r types.Reading) (err error) {
	name := s.Name()
	defer func() {
		if p := recover(); p != nil {
			err = &SubscriberError{Name: name, Err: fmt.Errorf("panic: %v", p)}
			slog.Error("hub: subscriber panicked", "subscriber", name, "panic", p)
		}
	}()

	if err := s.OnReading(ctx, r); err != nil {
		slog.Warn("hub: subscriber failed", "subscriber", name, "err", err)
		return &SubscriberError{Name: name, Err: err}
	}
	return nil
}
