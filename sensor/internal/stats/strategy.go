package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Errors returned by strategies and Context.
var (
	ErrEmptyInput         = errors.New("stats: empty input")
	ErrNoStrategySelected = errors.New("stats: no strategy selected")
	ErrInvalidStrategy    = errors.New("stats: invalid strategy")
)

// Strategy names reported by Name and accepted by ByName.
const (
	NameMeanStdDev = "mean_stddev"
	NameMedian     = "median"
	NameMinMax     = "min_max"
)

// Result is the output of one strategy. The concrete type depends on the
// strategy that produced it.
type Result interface {
	Strategy() string
	Values() []float64
}

// Strategy is a pure computation over an ordered, non-empty sample window.
type Strategy interface {
	Name() string
	Compute(samples []float64) (Result, error)
}

// MeanStdDevResult holds the arithmetic mean and population standard deviation.
type MeanStdDevResult struct {
	Mean   float64
	StdDev float64
}

func (MeanStdDevResult) Strategy() string    { return NameMeanStdDev }
func (r MeanStdDevResult) Values() []float64 { return []float64{r.Mean, r.StdDev} }

// MedianResult holds the median of the window.
type MedianResult struct {
	Median float64
}

func (MedianResult) Strategy() string    { return NameMedian }
func (r MedianResult) Values() []float64 { return []float64{r.Median} }

// MinMaxResult holds both extremes of the window.
type MinMaxResult struct {
	Min float64
	Max float64
}

func (MinMaxResult) Strategy() string    { return NameMinMax }
func (r MinMaxResult) Values() []float64 { return []float64{r.Min, r.Max} }

// MeanStdDev computes the mean and the population standard deviation
// (squared deviations divided by n), both rounded to 2 decimal places.
type MeanStdDev struct{}

func (MeanStdDev) Name() string { return NameMeanStdDev }

func (MeanStdDev) Compute(samples []float64) (Result, error) {
	n := len(samples)
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", NameMeanStdDev, ErrEmptyInput)
	}

	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range samples {
		d := v - mean
		sq += d * d
	}

	return MeanStdDevResult{
		Mean:   round2(mean),
		StdDev: round2(math.Sqrt(sq / float64(n))),
	}, nil
}

// Median computes the middle value of the sorted window. For even lengths it
// averages the two central values.
type Median struct{}

func (Median) Name() string { return NameMedian }

func (Median) Compute(samples []float64) (Result, error) {
	n := len(samples)
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", NameMedian, ErrEmptyInput)
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	mid := n / 2
	if n%2 == 0 {
		return MedianResult{Median: (sorted[mid-1] + sorted[mid]) / 2}, nil
	}
	return MedianResult{Median: sorted[mid]}, nil
}

// MinMax reports the smallest and largest value in the window.
type MinMax struct{}

func (MinMax) Name() string { return NameMinMax }

func (MinMax) Compute(samples []float64) (Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: %w", NameMinMax, ErrEmptyInput)
	}
	return MinMaxResult{Min: slices.Min(samples), Max: slices.Max(samples)}, nil
}

// ByName returns the strategy registered under name.
func ByName(name string) (Strategy, error) {
	switch name {
	case NameMeanStdDev:
		return MeanStdDev{}, nil
	case NameMedian:
		return Median{}, nil
	case NameMinMax:
		return MinMax{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidStrategy, name)
	}
}

// round2 rounds v to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
