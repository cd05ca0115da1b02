package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/config"
	"github.com/obsidianstack/tempwatch/sensor/internal/hub"
	"github.com/obsidianstack/tempwatch/sensor/internal/sink"
	"github.com/obsidianstack/tempwatch/sensor/internal/source"
)

var tracer = otel.Tracer("github.com/obsidianstack/tempwatch/sensor/internal/pipeline")

// Pipeline feeds every reading from its source to the hub, one at a time.
type Pipeline struct {
	sensor string
	src    source.Source
	hub    *hub.Hub

	published atomic.Uint64
	failed    atomic.Uint64
}

// New returns a Pipeline publishing readings from src to h.
func New(sensor string, src source.Source, h *hub.Hub) *Pipeline {
	return &Pipeline{sensor: sensor, src: src, hub: h}
}

// Build constructs the source, the hub and one Operator per configured
// subscriber, all emitting to s.
func Build(cfg *config.Config, s sink.Sink) (*Pipeline, error) {
	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	h := hub.New(hub.WithConcurrency(cfg.Sensor.Concurrent))
	for _, name := range cfg.Sensor.Subscribers {
		op := hub.NewOperator(name, s, hub.WithSensor(cfg.Sensor.Name))
		if err := h.Subscribe(op); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	return New(cfg.Sensor.Name, src, h), nil
}

// Hub returns the hub so callers can add or remove subscribers at runtime.
func (p *Pipeline) Hub() *hub.Hub {
	return p.hub
}

// Run drives the source until ctx is cancelled or the source ends. A reading
// being delivered when ctx is cancelled is delivered to every subscriber in
// the snapshot before Run returns; no further readings are produced.
func (p *Pipeline) Run(ctx context.Context) error {
	slog.Info("pipeline: started", "sensor", p.sensor, "subscribers", p.hub.Names())

	err := p.src.Run(ctx, p.publish)

	slog.Info("pipeline: stopped", "sensor", p.sensor,
		"published", p.published.Load(), "failed", p.failed.Load())
	if err != nil {
		return fmt.Errorf("pipeline: source: %w", err)
	}
	return nil
}

// Published returns the number of readings handed to the hub.
func (p *Pipeline) Published() uint64 { return p.published.Load() }

// Failed returns the number of readings for which at least one subscriber failed.
func (p *Pipeline) Failed() uint64 { return p.failed.Load() }

func (p *Pipeline) publish(ctx context.Context, r types.Reading) {
	// Cancellation stops the source, not a fan-out that already started.
	ctx = context.WithoutCancel(ctx)

	ctx, span := tracer.Start(ctx, "pipeline.tick", trace.WithAttributes(
		attribute.String("sensor", p.sensor),
	))
	defer span.End()

	p.published.Add(1)
	if err := p.hub.Publish(ctx, r); err != nil {
		p.failed.Add(1)
		slog.Error("pipeline: publish had failures",
			"sensor", p.sensor, "reading", r.Value, "err", err)
		return
	}
	slog.Debug("pipeline: reading published", "sensor", p.sensor, "reading", r.Value)
}
