package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
sensor:
  name: invernadero
  subscribers: [night-shift, day-shift]
  concurrent: true
source:
  type: random
  interval: 2s
  min: 12.5
  max: 30
metrics:
  listen: ":9102"
log:
  level: debug
`
	cfg := loadFromString(t, yaml)

	assert.Equal(t, "invernadero", cfg.Sensor.Name)
	assert.Equal(t, []string{"night-shift", "day-shift"}, cfg.Sensor.Subscribers)
	assert.True(t, cfg.Sensor.Concurrent)
	assert.Equal(t, 2*time.Second, cfg.Source.Interval)
	assert.Equal(t, 12.5, cfg.Source.Min)
	assert.Equal(t, 30.0, cfg.Source.Max)
	assert.Equal(t, ":9102", cfg.Metrics.Listen)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, "{}\n")

	assert.Equal(t, DefaultSensorName, cfg.Sensor.Name)
	assert.Equal(t, []string{DefaultSubscriber}, cfg.Sensor.Subscribers)
	assert.Equal(t, SourceRandom, cfg.Source.Type)
	assert.Equal(t, DefaultInterval, cfg.Source.Interval)
	assert.Equal(t, DefaultMin, cfg.Source.Min)
	assert.Equal(t, DefaultMax, cfg.Source.Max)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown source type", "source:\n  type: thermocouple\n"},
		{"inverted range", "source:\n  min: 40\n  max: 10\n"},
		{"zero interval", "source:\n  interval: 0s\n"},
		{"replay without path", "source:\n  type: replay\n"},
		{"scrape without endpoint", "source:\n  type: scrape\n  metric: temp\n"},
		{"scrape without metric", "source:\n  type: scrape\n  endpoint: http://localhost/metrics\n"},
		{"duplicate subscriber", "sensor:\n  subscribers: [a, a]\n"},
		{"blank subscriber", "sensor:\n  subscribers: [\"\"]\n"},
		{"blank sensor name", "sensor:\n  name: \" \"\n"},
		{"unknown log level", "log:\n  level: loud\n"},
		{"bad yaml", "sensor: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadStringErr(t, tc.yaml)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReplayAllowsZeroInterval(t *testing.T) {
	cfg := loadFromString(t, "source:\n  type: replay\n  path: readings.csv\n  interval: 0s\n")
	assert.Zero(t, cfg.Source.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEMPWATCH_TEST_ENDPOINT", "http://probe:9100/metrics")
	cfg := loadFromString(t, `
source:
  type: scrape
  endpoint: ${TEMPWATCH_TEST_ENDPOINT}
  metric: greenhouse_temperature_celsius
`)
	assert.Equal(t, "http://probe:9100/metrics", cfg.Source.Endpoint)
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	// Registered first so t.Setenv restores (unsets) it after godotenv sets it.
	t.Setenv("TEMPWATCH_DOTENV_SENSOR", "")
	os.Unsetenv("TEMPWATCH_DOTENV_SENSOR")

	writeFile(t, filepath.Join(dir, ".env"), "TEMPWATCH_DOTENV_SENSOR=from-dotenv\n")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "sensor:\n  name: ${TEMPWATCH_DOTENV_SENSOR}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Sensor.Name)
}

func TestSource_Token(t *testing.T) {
	t.Setenv("TEST_SCRAPE_TOKEN", "s3cret")
	assert.Equal(t, "s3cret", Source{TokenEnv: "TEST_SCRAPE_TOKEN"}.Token())
	assert.Empty(t, Source{}.Token())
}

// startWatch runs Watch on path and returns the reload channel. Watch is
// stopped and checked for a clean return when the test ends.
func startWatch(t *testing.T, path string) <-chan *Config {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { got <- c })
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Watch did not return after cancel")
		}
	})

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	return got
}

// waitForLevel drains reloads until one carries level.
func waitForLevel(t *testing.T, got <-chan *Config, level string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Log.Level == level {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload with level %q", level)
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log:\n  level: info\n")

	got := startWatch(t, path)
	writeFile(t, path, "log:\n  level: debug\n")

	waitForLevel(t, got, "debug")
}

func TestWatch_BurstOfWritesReloadsSettledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log:\n  level: warn\n")

	got := startWatch(t, path)

	// An emptied file would load as defaults (level info). Written back to
	// back, only the final content must be reloaded.
	writeFile(t, path, "")
	writeFile(t, path, "log:\n  level: error\n")
	writeFile(t, path, "log:\n  level: debug\n")

	select {
	case c := <-got:
		assert.Equal(t, "debug", c.Log.Level)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	select {
	case c := <-got:
		t.Fatalf("extra reload for a single burst: level %q", c.Log.Level)
	case <-time.After(3 * reloadDelay):
	}
}

func TestWatch_InvalidReloadKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log:\n  level: info\n")

	got := startWatch(t, path)
	writeFile(t, path, "log:\n  level: loud\n")

	select {
	case c := <-got:
		t.Fatalf("onChange called with invalid config: %+v", c)
	case <-time.After(5 * reloadDelay):
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, content)
	require.NoError(t, err)
	return cfg
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, content)
	return Load(path)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
