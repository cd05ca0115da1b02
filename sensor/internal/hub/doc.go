// Package hub distributes readings to subscribers.
//
// Hub holds the registered subscribers in registration order. Publish takes a
// snapshot of the registry and notifies every subscriber in it exactly once;
// registry changes made while a publish is in flight are seen by the next
// publish only. A subscriber that fails or panics does not stop the fan-out:
// failures are collected and returned as a joined error of *SubscriberError.
//
// With WithConcurrency(true) each subscriber is notified on its own goroutine
// and Publish waits for all of them before returning, so a subscriber never
// sees reading N+1 before it has finished reading N.
//
// Operator is the standard subscriber: it appends each reading to its own
// history and runs its own rule chain over the full value history, handing the
// resulting events to a sink.
package hub
