package postgres

import (
	"context"
	"fmt"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

// UpsertZone inserts a zone keyed by its business identifier, returning the
// row's primary key. Re-running the seed updates the descriptive fields
// instead of duplicating the zone.
func (s *Store) UpsertZone(ctx context.Context, z domain.Zone) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO zones (zone_id, name, city, center_lat, center_lng, population, geometry)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (zone_id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			center_lat = EXCLUDED.center_lat,
			center_lng = EXCLUDED.center_lng,
			population = EXCLUDED.population,
			geometry = EXCLUDED.geometry,
			updated_at = now()
		RETURNING id`,
		z.ZoneID, z.Name, z.City, z.CenterLat, z.CenterLng, z.Population, z.Geometry,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert zone %s: %w", z.ZoneID, err)
	}
	return id, nil
}

// UpsertShelter inserts a shelter keyed by (zone, name). Occupancy is only
// set on first insert so reseeding never clobbers live occupancy updates.
func (s *Store) UpsertShelter(ctx context.Context, sh domain.Shelter) error {
	var contact *string
	if sh.Contact != "" {
		contact = &sh.Contact
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shelters (zone_id, name, capacity, current_occupancy, address, latitude, longitude, facilities, contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (zone_id, name) DO UPDATE SET
			capacity = EXCLUDED.capacity,
			address = EXCLUDED.address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			facilities = EXCLUDED.facilities,
			contact = EXCLUDED.contact`,
		sh.ZoneID, sh.Name, sh.Capacity, sh.CurrentOccupancy,
		sh.Address, sh.Latitude, sh.Longitude, sh.Facilities, contact,
	)
	if err != nil {
		return fmt.Errorf("upsert shelter %s: %w", sh.Name, err)
	}
	return nil
}
