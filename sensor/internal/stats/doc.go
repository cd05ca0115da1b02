// Package stats computes summary statistics over a window of samples.
//
// strategy.go provides the pure strategies: MeanStdDev (population standard
// deviation, both values rounded to 2 decimals), Median and MinMax. Every
// strategy rejects an empty window with ErrEmptyInput.
//
// context.go provides Context, which holds a dataset and one active strategy
// and delegates Compute to it. Swapping the strategy never touches the data.
package stats
