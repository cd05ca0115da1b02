// Package sink implements the event sinks that receive records from the
// pipeline. The core only builds types.Record values; rendering and export
// happen here.
//
//   - LogSink writes one structured slog line per record.
//   - MetricsSink exports window statistics and alert counters to a
//     Prometheus registry.
//   - Recorder keeps the most recent records in memory.
//   - Multi fans a record out to several sinks.
package sink
