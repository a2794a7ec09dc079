package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

// AnalyticsSince returns the zone's sensor samples with timestamp >= since,
// oldest first. This is a genuine time-range filter, unlike the fixed row
// window used for predictions.
func (s *Store) AnalyticsSince(ctx context.Context, zoneID string, since time.Time) ([]domain.AnalyticsPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, zone_id, timestamp, rainfall_mm, river_level_m, soil_moisture, created_at
		FROM analytics_data
		WHERE zone_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC`,
		zoneID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	defer rows.Close()

	var points []domain.AnalyticsPoint
	for rows.Next() {
		var p domain.AnalyticsPoint
		err := rows.Scan(&p.ID, &p.ZoneID, &p.Timestamp, &p.RainfallMM, &p.RiverLevelM, &p.SoilMoisture, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan analytics point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// InsertAnalyticsPoint records one sensor sample. Used by the seed tool and
// the ingestion side; the core only reads analytics back.
func (s *Store) InsertAnalyticsPoint(ctx context.Context, p domain.AnalyticsPoint) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analytics_data (zone_id, timestamp, rainfall_mm, river_level_m, soil_moisture)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ZoneID, p.Timestamp, p.RainfallMM, p.RiverLevelM, p.SoilMoisture,
	)
	if err != nil {
		return fmt.Errorf("insert analytics point: %w", err)
	}
	return nil
}
