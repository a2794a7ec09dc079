package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

func (s *Server) handleSubmitReading(w http.ResponseWriter, r *http.Request) {
	var reading domain.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	prediction, err := s.service.SubmitReading(r.Context(), r.PathValue("zone_id"), reading)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prediction)
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.service.Zones(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(zones))
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	zone, err := s.service.ZoneByID(r.Context(), r.PathValue("zone_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (s *Server) handleZonePredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.service.PredictionsByZone(r.Context(), r.PathValue("zone_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(predictions))
}

func (s *Server) handleZoneAnalytics(w http.ResponseWriter, r *http.Request) {
	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hours must be an integer"})
			return
		}
		hours = parsed
	}

	points, err := s.service.AnalyticsInRange(r.Context(), r.PathValue("zone_id"), hours)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(points))
}

func (s *Server) handleLatestPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	predictions, err := s.service.LatestPredictions(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(predictions))
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	var status *domain.AlertStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := domain.AlertStatus(raw)
		if parsed != domain.StatusTriggered && parsed != domain.StatusResolved {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be TRIGGERED or RESOLVED"})
			return
		}
		status = &parsed
	}

	alerts, err := s.service.Alerts(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(alerts))
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := s.service.ResolveAlert(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleListShelters(w http.ResponseWriter, r *http.Request) {
	shelters, err := s.service.Shelters(r.Context(), r.URL.Query().Get("zone_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(shelters))
}

func (s *Server) handleShelterOccupancy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Occupancy *int `json:"occupancy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Occupancy == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must include an occupancy integer"})
		return
	}

	shelter, err := s.service.UpdateShelterOccupancy(r.Context(), r.PathValue("id"), *body.Occupancy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shelter)
}

// emptyIfNil keeps list endpoints returning [] instead of null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
