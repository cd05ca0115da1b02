package types

import "time"

// Reading is one timestamped temperature sample.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Values projects a reading sequence onto its values, preserving order.
func Values(rs []Reading) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Value
	}
	return out
}
