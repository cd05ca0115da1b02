package sink

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

const namespace = "tempwatch"

// MetricsSink exports the latest window statistics and alert counts.
type MetricsSink struct {
	mean    *prometheus.GaugeVec
	stddev  *prometheus.GaugeVec
	last    *prometheus.GaugeVec
	alerts  *prometheus.CounterVec
	records *prometheus.CounterVec
}

// NewMetricsSink registers the sink's collectors on reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	s := &MetricsSink{
		mean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_mean_celsius",
			Help:      "Mean temperature over the trailing summary window.",
		}, []string{"subscriber"}),
		stddev: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_stddev_celsius",
			Help:      "Population standard deviation over the trailing summary window.",
		}, []string{"subscriber"}),
		last: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_reading_celsius",
			Help:      "Most recent reading seen by the subscriber.",
		}, []string{"subscriber"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts emitted, by subscriber and kind.",
		}, []string{"subscriber", "kind"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records emitted, by subscriber and severity.",
		}, []string{"subscriber", "severity"}),
	}

	for _, c := range []prometheus.Collector{s.mean, s.stddev, s.last, s.alerts, s.records} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MetricsSink) Emit(_ context.Context, rec types.Record) error {
	s.records.WithLabelValues(rec.Subscriber, string(rec.Severity)).Inc()
	s.last.WithLabelValues(rec.Subscriber).Set(rec.Reading.Value)

	switch ev := rec.Event.(type) {
	case types.SummaryEvent:
		s.mean.WithLabelValues(rec.Subscriber).Set(ev.Mean)
		s.stddev.WithLabelValues(rec.Subscriber).Set(ev.StdDev)
	default:
		s.alerts.WithLabelValues(rec.Subscriber, string(rec.Event.Kind())).Inc()
	}
	return nil
}
