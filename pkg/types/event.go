package types

// EventKind identifies the concrete type behind an Event.
type EventKind string

const (
	KindSummary   EventKind = "summary"
	KindThreshold EventKind = "threshold"
	KindGrowth    EventKind = "growth"
)

// Severity indicates how a sink should treat a record.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Event is produced by a rule in the chain.
type Event interface {
	Kind() EventKind
}

// SummaryEvent carries the window statistics computed for one reading.
type SummaryEvent struct {
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Samples int     `json:"samples"`

	// Extra holds optional additional statistics keyed by strategy name.
	Extra map[string][]float64 `json:"extra,omitempty"`
}

func (SummaryEvent) Kind() EventKind { return KindSummary }

// ThresholdAlert fires when the latest value exceeds Threshold.
type ThresholdAlert struct {
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

func (ThresholdAlert) Kind() EventKind { return KindThreshold }

// GrowthAlert fires when the value rose by at least Threshold across the
// last Lookback readings.
type GrowthAlert struct {
	Delta     float64 `json:"delta"`
	Lookback  int     `json:"lookback"`
	Threshold float64 `json:"threshold"`
}

func (GrowthAlert) Kind() EventKind { return KindGrowth }

// SeverityOf maps an event to the severity its record carries.
func SeverityOf(ev Event) Severity {
	if ev.Kind() == KindSummary {
		return SeverityInfo
	}
	return SeverityWarning
}

// Record is the envelope delivered to sinks for every emitted event.
type Record struct {
	ID         string   `json:"id"`
	Sensor     string   `json:"sensor,omitempty"`
	Subscriber string   `json:"subscriber"`
	Reading    Reading  `json:"reading"`
	Severity   Severity `json:"severity"`
	Event      Event    `json:"event"`
}
