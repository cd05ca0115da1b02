package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/obsidianstack/tempwatch/pkg/types"
	"github.com/obsidianstack/tempwatch/sensor/internal/config"
)

const defaultScrapeTimeout = 10 * time.Second

// Scrape polls a Prometheus text exposition endpoint and emits the value of
// one gauge family per tick. A failed scrape is logged and produces no
// reading for that tick.
type Scrape struct {
	src    config.Source
	client *http.Client
	now    func() time.Time
}

// NewScrape returns a Scrape source for cfg.
func NewScrape(cfg config.Source) (*Scrape, error) {
	if cfg.Endpoint == "" || cfg.Metric == "" {
		return nil, fmt.Errorf("source: scrape: endpoint and metric are required")
	}
	return &Scrape{
		src:    cfg,
		client: buildHTTPClient(cfg),
		now:    time.Now,
	}, nil
}

func (s *Scrape) Run(ctx context.Context, emit EmitFunc) error {
	slog.Info("source: scrape started",
		"endpoint", s.src.Endpoint, "metric", s.src.Metric, "interval", s.src.Interval)

	return tickLoop(ctx, s.src.Interval, func(time.Time) (bool, error) {
		r, err := s.Scrape(ctx)
		if err != nil {
			slog.Warn("source: scrape failed", "endpoint", s.src.Endpoint, "err", err)
			return false, nil
		}
		emit(ctx, r)
		return false, nil
	})
}

// Scrape performs one fetch and returns the current reading.
func (s *Scrape) Scrape(ctx context.Context) (types.Reading, error) {
	mfs, err := fetchMetrics(ctx, s.client, s.src.Endpoint)
	if err != nil {
		return types.Reading{}, err
	}
	mf, ok := mfs[s.src.Metric]
	if !ok {
		return types.Reading{}, fmt.Errorf("metric %q not exposed", s.src.Metric)
	}
	v, ok := firstValue(mf)
	if !ok {
		return types.Reading{}, fmt.Errorf("metric %q has no samples", s.src.Metric)
	}
	return types.Reading{Timestamp: s.now(), Value: v}, nil
}

// authRoundTripper injects the bearer token into every outgoing request.
type authRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

func buildHTTPClient(cfg config.Source) *http.Client {
	return &http.Client{
		Transport: &authRoundTripper{base: http.DefaultTransport, token: cfg.Token()},
		Timeout:   defaultScrapeTimeout,
	}
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// firstValue returns the value of the first gauge, untyped or counter sample
// in mf.
func firstValue(mf *dto.MetricFamily) (float64, bool) {
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			return m.Gauge.GetValue(), true
		case m.Untyped != nil:
			return m.Untyped.GetValue(), true
		case m.Counter != nil:
			return m.Counter.GetValue(), true
		}
	}
	return 0, false
}
