package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

const predictionColumns = "id, zone_id, risk_probability, severity, time_to_impact_hours, " +
	"rain_1h, rain_24h, river_level, soil_index, top_factors, predicted_at, created_at"

// CreatePrediction persists a prediction and, when alert is non-nil, its
// entailed alert inside one transaction. Either both rows commit or neither
// does; a cancelled context rolls the whole unit back.
func (s *Store) CreatePrediction(ctx context.Context, p domain.Prediction, alert *domain.Alert) error {
	return s.withTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO predictions (id, zone_id, risk_probability, severity, time_to_impact_hours,
				rain_1h, rain_24h, river_level, soil_index, top_factors, predicted_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ID, p.ZoneID, p.RiskProbability, p.Severity, p.TimeToImpactHours,
			p.Rain1h, p.Rain24h, p.RiverLevel, p.SoilIndex, p.TopFactors, p.PredictedAt, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}

		if alert == nil {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO alerts (id, zone_id, severity, message, status, triggered_at, resolved_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			alert.ID, alert.ZoneID, alert.Severity, alert.Message, alert.Status,
			alert.TriggeredAt, alert.ResolvedAt, alert.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}
		return nil
	})
}

// LatestPredictions returns up to limit predictions across all zones, newest first.
func (s *Store) LatestPredictions(ctx context.Context, limit int) ([]domain.Prediction, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+predictionColumns+" FROM predictions ORDER BY predicted_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("query latest predictions: %w", err)
	}
	defer rows.Close()
	return collectPredictions(rows)
}

// PredictionsByZone returns the zone's most recent predictions, newest first.
// The limit is a row count, not a time window.
func (s *Store) PredictionsByZone(ctx context.Context, zoneID string, limit int) ([]domain.Prediction, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+predictionColumns+" FROM predictions WHERE zone_id = $1 ORDER BY predicted_at DESC LIMIT $2",
		zoneID, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions by zone: %w", err)
	}
	defer rows.Close()
	return collectPredictions(rows)
}

func collectPredictions(rows pgx.Rows) ([]domain.Prediction, error) {
	var predictions []domain.Prediction
	for rows.Next() {
		var p domain.Prediction
		err := rows.Scan(
			&p.ID, &p.ZoneID, &p.RiskProbability, &p.Severity, &p.TimeToImpactHours,
			&p.Rain1h, &p.Rain24h, &p.RiverLevel, &p.SoilIndex, &p.TopFactors,
			&p.PredictedAt, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
