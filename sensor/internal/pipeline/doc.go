// Package pipeline wires a reading source to the hub and runs the producer
// loop.
//
// A Pipeline is built once at startup and passed by reference; there is no
// package-level state. Readings are published one at a time: the next reading
// is not produced until every subscriber has handled the current one.
// Cancelling the context passed to Run stops the source after the in-flight
// publish completes.
package pipeline
