package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// RecordSource exposes the records held by an in-memory sink.
type RecordSource interface {
	Records() []types.Record
}

// Registry exposes the names of the registered subscribers.
type Registry interface {
	Names() []string
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	sensor   string
	records  RecordSource
	registry Registry
	mux      *http.ServeMux
}

// New creates a Handler reading from records and registry and registers all routes.
func New(sensor string, records RecordSource, registry Registry) http.Handler {
	h := &Handler{
		sensor:   sensor,
		records:  records,
		registry: registry,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/subscribers", h.subscribers)
	h.mux.HandleFunc("/api/v1/records", h.listRecords)
	h.mux.HandleFunc("/api/v1/alerts", h.alerts)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health. State is "alerting" when the newest
// reading produced at least one warning.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records := h.records.Records()
	resp := HealthResponse{
		Sensor:      h.sensor,
		State:       "unknown",
		Subscribers: len(h.registry.Names()),
		RecordCount: len(records),
	}
	if len(records) == 0 {
		jsonResp(w, http.StatusOK, resp)
		return
	}

	last := records[len(records)-1].Reading
	resp.State = "ok"
	resp.LastReading = &last.Value
	resp.LastSeen = last.Timestamp.UTC().Format(time.RFC3339)

	for _, rec := range records {
		if rec.Severity != types.SeverityWarning {
			continue
		}
		resp.AlertCount++
		if rec.Reading.Timestamp.Equal(last.Timestamp) {
			resp.State = "alerting"
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// subscribers returns GET /api/v1/subscribers.
func (h *Handler) subscribers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names := h.registry.Names()
	if names == nil {
		names = []string{}
	}
	jsonResp(w, http.StatusOK, names)
}

// listRecords returns GET /api/v1/records, oldest first.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	h.serveRecords(w, r, func(types.Record) bool { return true })
}

// alerts returns GET /api/v1/alerts, oldest first.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	h.serveRecords(w, r, func(rec types.Record) bool {
		return rec.Severity == types.SeverityWarning
	})
}

func (h *Handler) serveRecords(w http.ResponseWriter, r *http.Request, keep func(types.Record) bool) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	subscriber := q.Get("subscriber")
	kind := types.EventKind(q.Get("kind"))
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonErr(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	out := make([]RecordResponse, 0)
	for _, rec := range h.records.Records() {
		if !keep(rec) {
			continue
		}
		if subscriber != "" && rec.Subscriber != subscriber {
			continue
		}
		if kind != "" && rec.Event.Kind() != kind {
			continue
		}
		resp, err := toRecordResponse(rec)
		if err != nil {
			jsonErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, resp)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	jsonResp(w, http.StatusOK, out)
}

// --- helpers ----------------------------------------------------------------

func toRecordResponse(rec types.Record) (RecordResponse, error) {
	ev, err := json.Marshal(rec.Event)
	if err != nil {
		return RecordResponse{}, fmt.Errorf("encode %s event: %w", rec.Event.Kind(), err)
	}
	return RecordResponse{
		ID:         rec.ID,
		Sensor:     rec.Sensor,
		Subscriber: rec.Subscriber,
		Kind:       rec.Event.Kind(),
		Severity:   rec.Severity,
		Value:      rec.Reading.Value,
		Timestamp:  rec.Reading.Timestamp.UTC().Format(time.RFC3339),
		Event:      ev,
	}, nil
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
