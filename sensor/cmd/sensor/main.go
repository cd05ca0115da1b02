package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obsidianstack/tempwatch/sensor/internal/api"
	"github.com/obsidianstack/tempwatch/sensor/internal/config"
	"github.com/obsidianstack/tempwatch/sensor/internal/pipeline"
	"github.com/obsidianstack/tempwatch/sensor/internal/sink"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("tempwatch-sensor starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())
	slog.Info("config loaded",
		"sensor", cfg.Sensor.Name,
		"source", cfg.Source.Type,
		"interval", cfg.Source.Interval,
		"subscribers", cfg.Sensor.Subscribers,
		"concurrent", cfg.Sensor.Concurrent,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := sink.NewMetricsSink(reg)
	if err != nil {
		slog.Error("failed to register metrics", "err", err)
		os.Exit(1)
	}
	recorder := sink.NewRecorder(sink.DefaultRecorderSize)
	out := sink.Multi{sink.NewLogSink(logger), metrics, recorder}

	p, err := pipeline.Build(cfg, out)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		os.Exit(1)
	}

	// Hot reload applies the log level only; sources and subscribers are
	// fixed for the lifetime of the process.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			level.Set(updated.Log.SlogLevel())
			slog.Info("config hot-reloaded", "log_level", updated.Log.Level)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	var httpSrv *http.Server
	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		mux.Handle("/api/", api.New(cfg.Sensor.Name, recorder, p.Hub()))

		httpSrv = &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("HTTP server listening", "addr", cfg.Metrics.Listen)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server stopped", "err", err)
			}
		}()
	}

	if err := p.Run(ctx); err != nil {
		slog.Error("pipeline stopped with error", "err", err)
	}

	slog.Info("tempwatch-sensor shutting down")
	if httpSrv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	}
}
