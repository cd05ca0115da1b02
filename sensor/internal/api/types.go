package api

import (
	"encoding/json"

	"github.com/obsidianstack/tempwatch/pkg/types"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Sensor      string   `json:"sensor"`
	State       string   `json:"state"` // unknown | ok | alerting
	Subscribers int      `json:"subscribers"`
	RecordCount int      `json:"record_count"`
	AlertCount  int      `json:"alert_count"`
	LastReading *float64 `json:"last_reading,omitempty"`
	LastSeen    string   `json:"last_seen,omitempty"` // RFC3339
}

// RecordResponse is one entry in GET /api/v1/records or /api/v1/alerts.
// Event holds the encoded event; decode it into the types value named by
// Kind (types.SummaryEvent, types.ThresholdAlert or types.GrowthAlert).
type RecordResponse struct {
	ID         string          `json:"id"`
	Sensor     string          `json:"sensor,omitempty"`
	Subscriber string          `json:"subscriber"`
	Kind       types.EventKind `json:"kind"`
	Severity   types.Severity  `json:"severity"`
	Value      float64         `json:"value"`
	Timestamp  string          `json:"timestamp"` // RFC3339
	Event      json.RawMessage `json:"event"`
}

type errorResponse struct {
	Error string `json:"error"`
}
