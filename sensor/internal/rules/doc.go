// Package rules implements the ordered alert chain evaluated on every reading.
//
// A Chain runs each Rule in construction order against the same history and
// never stops early: every rule decides on its own whether to fire. The
// default chain is SummaryRule, ThresholdRule, GrowthRule, so the window
// summary for a reading always precedes the alerts derived from it.
package rules
