package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

const zoneColumns = "id, zone_id, name, city, center_lat, center_lng, population, geometry, created_at, updated_at"

// Zones returns all zones ordered by display name.
func (s *Store) Zones(ctx context.Context) ([]domain.Zone, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+zoneColumns+" FROM zones ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// ZoneByID fetches one zone by primary key.
func (s *Store) ZoneByID(ctx context.Context, id string) (domain.Zone, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+zoneColumns+" FROM zones WHERE id = $1", id)
	z, err := scanZone(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Zone{}, fmt.Errorf("zone %s: %w", id, domain.ErrNotFound)
	}
	return z, err
}

func scanZone(row pgx.Row) (domain.Zone, error) {
	var z domain.Zone
	err := row.Scan(
		&z.ID, &z.ZoneID, &z.Name, &z.City,
		&z.CenterLat, &z.CenterLng, &z.Population, &z.Geometry,
		&z.CreatedAt, &z.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Zone{}, err
		}
		return domain.Zone{}, fmt.Errorf("scan zone: %w", err)
	}
	return z, nil
}
