package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source types accepted in source.type.
const (
	SourceRandom = "random"
	SourceReplay = "replay"
	SourceScrape = "scrape"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultSensorName = "greenhouse"
	DefaultSubscriber = "operator"
	DefaultInterval   = 5 * time.Second
	DefaultMin        = 10.0
	DefaultMax        = 35.0
	DefaultLogLevel   = "info"
)

// Config is the top-level sensor configuration.
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Source  Source        `yaml:"source"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// SensorConfig describes the monitored sensor and who listens to it.
type SensorConfig struct {
	// Name labels every record emitted for this sensor.
	Name string `yaml:"name"`

	// Subscribers lists the operators registered at startup. Each keeps its
	// own history and rule chain.
	Subscribers []string `yaml:"subscribers"`

	// Concurrent notifies subscribers in parallel. Readings are still
	// processed strictly one after another.
	Concurrent bool `yaml:"concurrent"`
}

// Source describes where readings come from.
type Source struct {
	// Type is one of: random | replay | scrape.
	Type string `yaml:"type"`

	// Interval is the time between readings.
	Interval time.Duration `yaml:"interval"`

	// Min and Max bound the random generator.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	// Path is the CSV file played back by the replay source.
	Path string `yaml:"path"`

	// Endpoint is the Prometheus text endpoint polled by the scrape source.
	Endpoint string `yaml:"endpoint"`

	// Metric is the gauge family read from Endpoint.
	Metric string `yaml:"metric"`

	// TokenEnv names the environment variable holding an optional bearer token.
	TokenEnv string `yaml:"token_env"`
}

// Token returns the bearer token resolved from the environment.
func (s Source) Token() string {
	if s.TokenEnv == "" {
		return ""
	}
	return os.Getenv(s.TokenEnv)
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the HTTP address serving /metrics, e.g. ":9102".
	// Empty disables the listener; metrics are still collected.
	Listen string `yaml:"listen"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if len(cfg.Sensor.Subscribers) == 0 {
		cfg.Sensor.Subscribers = []string{DefaultSubscriber}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads path into the environment if it exists. Variables that
// are already set are not overridden.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Sensor: SensorConfig{
			Name: DefaultSensorName,
		},
		Source: Source{
			Type:     SourceRandom,
			Interval: DefaultInterval,
			Min:      DefaultMin,
			Max:      DefaultMax,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Sensor.Name) == "" {
		return fmt.Errorf("sensor.name is required")
	}
	seen := make(map[string]bool, len(cfg.Sensor.Subscribers))
	for i, name := range cfg.Sensor.Subscribers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("sensor.subscribers[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("sensor.subscribers[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
	}

	src := cfg.Source
	switch src.Type {
	case SourceRandom:
		if src.Interval <= 0 {
			return fmt.Errorf("source.interval must be positive")
		}
		if src.Min > src.Max {
			return fmt.Errorf("source.min (%v) must not exceed source.max (%v)", src.Min, src.Max)
		}
	case SourceReplay:
		if src.Path == "" {
			return fmt.Errorf("source.path is required for type %q", src.Type)
		}
		if src.Interval < 0 {
			return fmt.Errorf("source.interval must not be negative")
		}
	case SourceScrape:
		if src.Endpoint == "" {
			return fmt.Errorf("source.endpoint is required for type %q", src.Type)
		}
		if src.Metric == "" {
			return fmt.Errorf("source.metric is required for type %q", src.Type)
		}
		if src.Interval <= 0 {
			return fmt.Errorf("source.interval must be positive")
		}
	default:
		return fmt.Errorf("source.type: unknown type %q", src.Type)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	return nil
}
