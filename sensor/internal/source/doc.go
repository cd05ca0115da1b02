// Package source provides reading sources that drive the pipeline.
//
// Every Source emits readings in timestamp order on a fixed cadence until its
// context is cancelled (or, for Replay, until the input is exhausted):
//
//   - Random draws uniform values in [Min, Max], rounded to 2 decimals.
//   - Replay plays back "timestamp,value" CSV lines with ISO-8601 timestamps.
//   - Scrape polls a Prometheus text endpoint and reads one gauge family.
//
// New(config.Source) returns the configured implementation.
package source
