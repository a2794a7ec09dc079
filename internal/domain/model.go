package domain

import (
	"encoding/json"
	"time"
)

// Severity is the three-level classification derived from risk probability.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
)

// AlertStatus tracks an alert through its lifecycle.
// The only transition is StatusTriggered → StatusResolved.
type AlertStatus string

const (
	StatusTriggered AlertStatus = "TRIGGERED"
	StatusResolved  AlertStatus = "RESOLVED"
)

// Zone is a fixed geographic monitoring area. Zones are created by the
// operator or the seed process and are read-only to this service afterwards.
type Zone struct {
	ID         string          `json:"id"`
	ZoneID     string          `json:"zone_id"` // stable business key, e.g. "ZONE_001"
	Name       string          `json:"name"`
	City       string          `json:"city"`
	CenterLat  float64         `json:"center_lat"`
	CenterLng  float64         `json:"center_lng"`
	Population int             `json:"population"`
	Geometry   json.RawMessage `json:"geometry,omitempty"` // opaque GeoJSON, never interpreted here
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Reading is one set of environmental measurements for a zone. Readings are
// transient: they are consumed by the scorer and retained only as columns on
// the prediction they produce.
type Reading struct {
	Rain1h     float64 `json:"rain_1h"`     // mm over the last hour
	Rain24h    float64 `json:"rain_24h"`    // mm over the last 24 hours
	RiverLevel float64 `json:"river_level"` // metres
	SoilIndex  float64 `json:"soil_index"`  // saturation fraction, 0..1
}

// Assessment is the scorer's output: probability, band, impact estimate, and
// the human-readable factors that explain them.
type Assessment struct {
	RiskProbability   float64  `json:"risk_probability"`
	Severity          Severity `json:"severity"`
	TimeToImpactHours int      `json:"time_to_impact_hours"`
	TopFactors        []string `json:"top_factors"`
}

// Prediction is a persisted scoring outcome. Predictions are immutable audit
// records: created exactly once per submitted reading, never updated.
type Prediction struct {
	ID                string    `json:"id"`
	ZoneID            string    `json:"zone_id"`
	RiskProbability   float64   `json:"risk_probability"`
	Severity          Severity  `json:"severity"`
	TimeToImpactHours int       `json:"time_to_impact_hours"`
	Rain1h            float64   `json:"rain_1h"`
	Rain24h           float64   `json:"rain_24h"`
	RiverLevel        float64   `json:"river_level"`
	SoilIndex         float64   `json:"soil_index"`
	TopFactors        []string  `json:"top_factors"`
	PredictedAt       time.Time `json:"predicted_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// Alert is the mutable record derived from a MODERATE or HIGH prediction.
type Alert struct {
	ID          string      `json:"id"`
	ZoneID      string      `json:"zone_id"`
	Severity    Severity    `json:"severity"`
	Message     string      `json:"message"`
	Status      AlertStatus `json:"status"`
	TriggeredAt time.Time   `json:"triggered_at"`
	ResolvedAt  *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AnalyticsPoint is one time-series sample of raw sensor data for a zone,
// written by the ingestion side and read back over genuine time ranges.
type AnalyticsPoint struct {
	ID           string    `json:"id"`
	ZoneID       string    `json:"zone_id"`
	Timestamp    time.Time `json:"timestamp"`
	RainfallMM   float64   `json:"rainfall_mm"`
	RiverLevelM  float64   `json:"river_level_m"`
	SoilMoisture float64   `json:"soil_moisture"`
	CreatedAt    time.Time `json:"created_at"`
}

// Shelter is an evacuation-capacity resource tracked independently of the
// risk pipeline. Only occupancy changes during normal operation.
type Shelter struct {
	ID               string    `json:"id"`
	ZoneID           string    `json:"zone_id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	CurrentOccupancy int       `json:"current_occupancy"`
	Address          string    `json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Facilities       []string  `json:"facilities"`
	Contact          string    `json:"contact,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
