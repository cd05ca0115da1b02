// Package types defines the shared value types that flow through the sensor
// pipeline: the Reading produced by a source, the events produced by the rule
// chain, and the Record envelope handed to event sinks.
package types
