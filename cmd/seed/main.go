// Command seed loads the demo fixtures: eight monitoring zones, their
// shelters, and 24 hours of synthetic sensor history per zone. Zones and
// shelters are upserted by business key, so rerunning is safe.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/floodforge/flood-risk-service/internal/config"
	"github.com/floodforge/flood-risk-service/internal/domain"
	"github.com/floodforge/flood-risk-service/internal/observability"
	"github.com/floodforge/flood-risk-service/internal/store/postgres"
)

var emptyPolygon = json.RawMessage(`{"type":"Polygon","coordinates":[[]]}`)

var zones = []domain.Zone{
	{ZoneID: "ZONE_001", Name: "North Delhi", City: "Delhi", CenterLat: 28.75, CenterLng: 77.1, Population: 450000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_002", Name: "South Delhi", City: "Delhi", CenterLat: 28.52, CenterLng: 77.18, Population: 380000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_003", Name: "Mumbai Central", City: "Mumbai", CenterLat: 19.08, CenterLng: 72.88, Population: 520000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_004", Name: "Bangalore South", City: "Bangalore", CenterLat: 12.93, CenterLng: 77.62, Population: 320000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_005", Name: "Chennai Coastal", City: "Chennai", CenterLat: 13.05, CenterLng: 80.27, Population: 290000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_006", Name: "Kolkata East", City: "Kolkata", CenterLat: 22.57, CenterLng: 88.37, Population: 410000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_007", Name: "Hyderabad", City: "Hyderabad", CenterLat: 17.37, CenterLng: 78.47, Population: 280000, Geometry: emptyPolygon},
	{ZoneID: "ZONE_008", Name: "Pune", City: "Pune", CenterLat: 18.52, CenterLng: 73.85, Population: 210000, Geometry: emptyPolygon},
}

// shelters reference zones by business key; the key is swapped for the row id
// after the zone upsert.
var shelters = []domain.Shelter{
	{ZoneID: "ZONE_001", Name: "North Delhi Community Center", Capacity: 500, CurrentOccupancy: 120,
		Address: "Sector 12, North Delhi", Latitude: 28.75, Longitude: 77.1,
		Facilities: []string{"Medical", "Food", "Water", "Beds"}, Contact: "+91-98765-43210"},
	{ZoneID: "ZONE_002", Name: "South Delhi High School", Capacity: 800, CurrentOccupancy: 250,
		Address: "Mehrauli, South Delhi", Latitude: 28.52, Longitude: 77.18,
		Facilities: []string{"Medical", "Food", "Water", "Beds", "Toilets"}, Contact: "+91-98765-43211"},
	{ZoneID: "ZONE_003", Name: "Mumbai Exhibition Center", Capacity: 2000, CurrentOccupancy: 450,
		Address: "NESCO, Mumbai", Latitude: 19.08, Longitude: 72.88,
		Facilities: []string{"Medical", "Food", "Water", "Beds", "Toilets", "Power"}, Contact: "+91-98765-43212"},
	{ZoneID: "ZONE_004", Name: "Bangalore Sports Complex", Capacity: 1200, CurrentOccupancy: 300,
		Address: "Koramangala, Bangalore", Latitude: 12.93, Longitude: 77.62,
		Facilities: []string{"Medical", "Food", "Water", "Beds", "Toilets"}, Contact: "+91-98765-43213"},
	{ZoneID: "ZONE_005", Name: "Chennai Naval Base", Capacity: 600, CurrentOccupancy: 80,
		Address: "Naval Base, Chennai", Latitude: 13.05, Longitude: 80.27,
		Facilities: []string{"Medical", "Food", "Water", "Beds", "Boats"}, Contact: "+91-98765-43214"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	store, err := postgres.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	zoneIDs := make(map[string]string, len(zones))
	for _, z := range zones {
		id, err := store.UpsertZone(ctx, z)
		if err != nil {
			logger.Error("zone seed failed", "zone", z.ZoneID, "error", err)
			os.Exit(1)
		}
		zoneIDs[z.ZoneID] = id
	}
	logger.Info("zones seeded", "count", len(zones))

	for _, sh := range shelters {
		sh.ZoneID = zoneIDs[sh.ZoneID]
		if err := store.UpsertShelter(ctx, sh); err != nil {
			logger.Error("shelter seed failed", "shelter", sh.Name, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("shelters seeded", "count", len(shelters))

	points := seedAnalytics(ctx, store, zoneIDs, logger)
	logger.Info("analytics seeded", "points", points)
}

// seedAnalytics writes one synthetic sensor sample per zone per hour for the
// trailing 24 hours. Values wander around plausible monsoon-season baselines.
func seedAnalytics(ctx context.Context, store *postgres.Store, zoneIDs map[string]string, logger *slog.Logger) int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC().Truncate(time.Hour)

	var points int
	for _, id := range zoneIDs {
		for h := 24; h >= 1; h-- {
			point := domain.AnalyticsPoint{
				ZoneID:       id,
				Timestamp:    now.Add(-time.Duration(h) * time.Hour),
				RainfallMM:   rng.Float64() * 25,
				RiverLevelM:  2.0 + rng.Float64()*2.5,
				SoilMoisture: 0.3 + rng.Float64()*0.5,
			}
			if err := store.InsertAnalyticsPoint(ctx, point); err != nil {
				logger.Error("analytics seed failed", "zone_id", id, "error", err)
				os.Exit(1)
			}
			points++
		}
	}
	return points
}
