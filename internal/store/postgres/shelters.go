package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

const shelterColumns = "id, zone_id, name, capacity, current_occupancy, address, latitude, longitude, facilities, contact, created_at"

// Shelters returns shelters ordered by name. A non-empty zoneID scopes the
// list to one zone.
func (s *Store) Shelters(ctx context.Context, zoneID string) ([]domain.Shelter, error) {
	query := "SELECT " + shelterColumns + " FROM shelters"
	var args []any
	if zoneID != "" {
		query += " WHERE zone_id = $1"
		args = append(args, zoneID)
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shelters: %w", err)
	}
	defer rows.Close()

	var shelters []domain.Shelter
	for rows.Next() {
		sh, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		shelters = append(shelters, sh)
	}
	return shelters, rows.Err()
}

// ShelterByID fetches one shelter.
func (s *Store) ShelterByID(ctx context.Context, id string) (domain.Shelter, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+shelterColumns+" FROM shelters WHERE id = $1", id)
	sh, err := scanShelter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shelter{}, fmt.Errorf("shelter %s: %w", id, domain.ErrNotFound)
	}
	return sh, err
}

// UpdateShelterOccupancy sets a shelter's current occupancy and returns the
// updated row. The capacity guard lives in the service layer.
func (s *Store) UpdateShelterOccupancy(ctx context.Context, id string, occupancy int) (domain.Shelter, error) {
	row := s.pool.QueryRow(ctx,
		"UPDATE shelters SET current_occupancy = $2 WHERE id = $1 RETURNING "+shelterColumns,
		id, occupancy,
	)
	sh, err := scanShelter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Shelter{}, fmt.Errorf("shelter %s: %w", id, domain.ErrNotFound)
	}
	return sh, err
}

func scanShelter(row pgx.Row) (domain.Shelter, error) {
	var sh domain.Shelter
	var contact *string
	err := row.Scan(
		&sh.ID, &sh.ZoneID, &sh.Name, &sh.Capacity, &sh.CurrentOccupancy,
		&sh.Address, &sh.Latitude, &sh.Longitude, &sh.Facilities, &contact, &sh.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Shelter{}, err
		}
		return domain.Shelter{}, fmt.Errorf("scan shelter: %w", err)
	}
	if contact != nil {
		sh.Contact = *contact
	}
	return sh, nil
}
