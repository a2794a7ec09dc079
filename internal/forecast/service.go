// Package forecast orchestrates the flood-risk pipeline: it scores submitted
// readings, persists the resulting predictions and alerts, and serves the
// read paths used by the surrounding application.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/floodforge/flood-risk-service/internal/domain"
	"github.com/floodforge/flood-risk-service/internal/observability"
)

// predictionWindow is the fixed number of rows returned per zone. This is a
// recency window, not a 24-hour time window; analytics queries use a genuine
// time range instead. The two must not be unified.
const predictionWindow = 24

// defaultLatestLimit applies when a caller asks for latest predictions
// without a positive limit.
const defaultLatestLimit = 10

// Store is the persistence collaborator. Implementations must translate
// missing rows to domain.ErrNotFound and illegal alert transitions to
// domain.ErrConflict.
type Store interface {
	ZoneByID(ctx context.Context, id string) (domain.Zone, error)
	Zones(ctx context.Context) ([]domain.Zone, error)

	// CreatePrediction persists the prediction and, when alert is non-nil,
	// the alert within the same transaction. A prediction is never committed
	// without its entailed alert.
	CreatePrediction(ctx context.Context, p domain.Prediction, alert *domain.Alert) error

	LatestPredictions(ctx context.Context, limit int) ([]domain.Prediction, error)
	PredictionsByZone(ctx context.Context, zoneID string, limit int) ([]domain.Prediction, error)

	Alerts(ctx context.Context, status *domain.AlertStatus) ([]domain.Alert, error)

	// MarkAlertResolved applies TRIGGERED → RESOLVED atomically. It returns
	// domain.ErrNotFound for an unknown id and domain.ErrConflict when the
	// alert is already resolved.
	MarkAlertResolved(ctx context.Context, id string, at time.Time) (domain.Alert, error)

	AnalyticsSince(ctx context.Context, zoneID string, since time.Time) ([]domain.AnalyticsPoint, error)

	Shelters(ctx context.Context, zoneID string) ([]domain.Shelter, error)
	ShelterByID(ctx context.Context, id string) (domain.Shelter, error)
	UpdateShelterOccupancy(ctx context.Context, id string, occupancy int) (domain.Shelter, error)
}

// Alert lifecycle event types published to the alert feed.
const (
	AlertEventTriggered = "alert.triggered"
	AlertEventResolved  = "alert.resolved"
)

// AlertEvent is an alert lifecycle change published to the outbound feed.
type AlertEvent struct {
	Type       string       `json:"type"`
	Alert      domain.Alert `json:"alert"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// AlertPublisher pushes alert lifecycle events to an outbound feed.
type AlertPublisher interface {
	PublishAlertEvent(ctx context.Context, event AlertEvent) error
}

// PredictionPublisher pushes fresh predictions to subscribers.
type PredictionPublisher interface {
	PublishPrediction(ctx context.Context, p domain.Prediction) error
}

// Service is the prediction/alert orchestrator.
type Service struct {
	store   Store
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	// Optional post-commit publishers; either may be nil.
	alertFeed   AlertPublisher
	predictions PredictionPublisher
}

// New creates the orchestrator. alertFeed and predictions may be nil; publish
// failures are logged and counted but never fail the originating operation.
func New(store Store, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, alertFeed AlertPublisher, predictions PredictionPublisher) *Service {
	return &Service{
		store:       store,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		alertFeed:   alertFeed,
		predictions: predictions,
	}
}

// SubmitReading validates and scores a reading for a zone, persists the
// prediction, and triggers an alert when the severity is MODERATE or HIGH.
// The prediction and alert writes share one transaction. Every qualifying
// reading creates a new alert; open alerts for the zone are not coalesced.
func (s *Service) SubmitReading(ctx context.Context, zoneID string, reading domain.Reading) (domain.Prediction, error) {
	start := time.Now()

	if err := reading.Validate(); err != nil {
		s.metrics.ValidationFailures.Inc()
		return domain.Prediction{}, err
	}

	zone, err := s.store.ZoneByID(ctx, zoneID)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("look up zone %s: %w", zoneID, err)
	}

	assessment := domain.ScoreRisk(reading)
	now := s.clock.Now().UTC()

	prediction := domain.Prediction{
		ID:                uuid.NewString(),
		ZoneID:            zone.ID,
		RiskProbability:   assessment.RiskProbability,
		Severity:          assessment.Severity,
		TimeToImpactHours: assessment.TimeToImpactHours,
		Rain1h:            reading.Rain1h,
		Rain24h:           reading.Rain24h,
		RiverLevel:        reading.RiverLevel,
		SoilIndex:         reading.SoilIndex,
		TopFactors:        assessment.TopFactors,
		PredictedAt:       now,
		CreatedAt:         now,
	}

	var alert *domain.Alert
	if assessment.Severity != domain.SeverityLow {
		alert = &domain.Alert{
			ID:       uuid.NewString(),
			ZoneID:   zone.ID,
			Severity: assessment.Severity,
			Message: fmt.Sprintf("%s flood risk detected in zone. Risk probability: %.0f%%",
				assessment.Severity, assessment.RiskProbability*100),
			Status:      domain.StatusTriggered,
			TriggeredAt: now,
			CreatedAt:   now,
		}
	}

	if err := s.store.CreatePrediction(ctx, prediction, alert); err != nil {
		return domain.Prediction{}, fmt.Errorf("persist prediction for zone %s: %w", zoneID, err)
	}

	s.metrics.ReadingsSubmitted.Inc()
	s.metrics.PredictionsCreated.WithLabelValues(string(assessment.Severity)).Inc()
	s.metrics.RiskProbability.Observe(assessment.RiskProbability)
	s.metrics.SubmitDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("prediction created",
		"zone", zone.ZoneID,
		"probability", assessment.RiskProbability,
		"severity", assessment.Severity,
		"alert_triggered", alert != nil,
	)

	if alert != nil {
		s.metrics.AlertsTriggered.Inc()
		s.publishAlertEvent(ctx, AlertEvent{Type: AlertEventTriggered, Alert: *alert, OccurredAt: now})
	}
	s.publishPrediction(ctx, prediction)

	return prediction, nil
}

// ResolveAlert transitions an alert from TRIGGERED to RESOLVED. RESOLVED is
// terminal: resolving an already-resolved alert fails with domain.ErrConflict.
func (s *Service) ResolveAlert(ctx context.Context, alertID string) (domain.Alert, error) {
	now := s.clock.Now().UTC()

	alert, err := s.store.MarkAlertResolved(ctx, alertID, now)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("resolve alert %s: %w", alertID, err)
	}

	s.metrics.AlertsResolved.Inc()
	s.logger.Info("alert resolved", "alert_id", alert.ID, "zone_id", alert.ZoneID, "severity", alert.Severity)

	s.publishAlertEvent(ctx, AlertEvent{Type: AlertEventResolved, Alert: alert, OccurredAt: now})

	return alert, nil
}

// LatestPredictions returns up to limit predictions across all zones,
// newest first. A non-positive limit falls back to the default of 10.
func (s *Service) LatestPredictions(ctx context.Context, limit int) ([]domain.Prediction, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return s.store.LatestPredictions(ctx, limit)
}

// PredictionsByZone returns the zone's most recent predictions, newest first,
// capped at the fixed 24-row window.
func (s *Service) PredictionsByZone(ctx context.Context, zoneID string) ([]domain.Prediction, error) {
	return s.store.PredictionsByZone(ctx, zoneID, predictionWindow)
}

// Alerts returns all alerts newest first, optionally filtered to one status.
func (s *Service) Alerts(ctx context.Context, status *domain.AlertStatus) ([]domain.Alert, error) {
	return s.store.Alerts(ctx, status)
}

// AnalyticsInRange returns the zone's sensor samples with timestamp within
// the trailing window of the given hours, ascending. Unlike PredictionsByZone
// this is a genuine time-range filter. Non-positive hours default to 24.
func (s *Service) AnalyticsInRange(ctx context.Context, zoneID string, hours int) ([]domain.AnalyticsPoint, error) {
	if hours <= 0 {
		hours = 24
	}
	since := s.clock.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return s.store.AnalyticsSince(ctx, zoneID, since)
}

// Zones lists all zones ordered by name.
func (s *Service) Zones(ctx context.Context) ([]domain.Zone, error) {
	return s.store.Zones(ctx)
}

// ZoneByID fetches one zone.
func (s *Service) ZoneByID(ctx context.Context, id string) (domain.Zone, error) {
	return s.store.ZoneByID(ctx, id)
}

// Shelters lists shelters ordered by name, optionally scoped to one zone.
func (s *Service) Shelters(ctx context.Context, zoneID string) ([]domain.Shelter, error) {
	return s.store.Shelters(ctx, zoneID)
}

// UpdateShelterOccupancy sets a shelter's current occupancy. Occupancy must
// satisfy 0 ≤ occupancy ≤ capacity or the update is rejected with a
// validation error.
func (s *Service) UpdateShelterOccupancy(ctx context.Context, shelterID string, occupancy int) (domain.Shelter, error) {
	if occupancy < 0 {
		return domain.Shelter{}, &domain.ValidationError{Field: "occupancy", Reason: "must not be negative"}
	}

	shelter, err := s.store.ShelterByID(ctx, shelterID)
	if err != nil {
		return domain.Shelter{}, fmt.Errorf("look up shelter %s: %w", shelterID, err)
	}
	if occupancy > shelter.Capacity {
		return domain.Shelter{}, &domain.ValidationError{
			Field:  "occupancy",
			Reason: fmt.Sprintf("exceeds capacity %d", shelter.Capacity),
		}
	}

	return s.store.UpdateShelterOccupancy(ctx, shelterID, occupancy)
}

// publishAlertEvent pushes an alert lifecycle event to the feed, if configured.
// Publishing happens after commit and is best-effort: the state change has
// already been persisted, so a feed failure must not fail the operation.
func (s *Service) publishAlertEvent(ctx context.Context, event AlertEvent) {
	if s.alertFeed == nil {
		return
	}
	if err := s.alertFeed.PublishAlertEvent(ctx, event); err != nil {
		s.metrics.PublishErrors.WithLabelValues("kafka").Inc()
		s.logger.Warn("alert event publish failed", "error", err, "type", event.Type, "alert_id", event.Alert.ID)
	}
}

// publishPrediction pushes a fresh prediction to subscribers, if configured.
// Best-effort, same as publishAlertEvent.
func (s *Service) publishPrediction(ctx context.Context, p domain.Prediction) {
	if s.predictions == nil {
		return
	}
	if err := s.predictions.PublishPrediction(ctx, p); err != nil {
		s.metrics.PublishErrors.WithLabelValues("redis").Inc()
		s.logger.Warn("prediction publish failed", "error", err, "prediction_id", p.ID)
	}
}
