// Package config loads and watches the sensor configuration file.
//
// Top-level types:
//   - Config{Sensor, Source, Metrics, Log}: full config tree parsed from YAML
//   - SensorConfig: sensor name, subscriber names, concurrent fan-out switch
//   - Source: type (random|replay|scrape), interval, value range, replay path,
//     scrape endpoint/metric/token_env
//   - MetricsConfig: listen address for /metrics (empty disables it)
//   - LogConfig: level (debug|info|warn|error)
//
// Load(path) loads an optional .env file from the config's directory, expands
// ${VAR} references in the YAML, applies defaults (5s interval, 10 to 35 range,
// one "operator" subscriber), then validates required fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. The parent directory is watched so
// atomic-save editors that rename a temp file over the config are seen too.
//
// Window sizes and alert thresholds are fixed in package rules and are not
// part of the configuration.
package config
