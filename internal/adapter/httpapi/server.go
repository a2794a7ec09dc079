// Package httpapi exposes the forecast service over JSON-over-HTTP, plus the
// operational health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

// Service is the slice of the forecast orchestrator the HTTP layer needs.
type Service interface {
	SubmitReading(ctx context.Context, zoneID string, reading domain.Reading) (domain.Prediction, error)
	ResolveAlert(ctx context.Context, alertID string) (domain.Alert, error)
	LatestPredictions(ctx context.Context, limit int) ([]domain.Prediction, error)
	PredictionsByZone(ctx context.Context, zoneID string) ([]domain.Prediction, error)
	Alerts(ctx context.Context, status *domain.AlertStatus) ([]domain.Alert, error)
	AnalyticsInRange(ctx context.Context, zoneID string, hours int) ([]domain.AnalyticsPoint, error)
	Zones(ctx context.Context) ([]domain.Zone, error)
	ZoneByID(ctx context.Context, id string) (domain.Zone, error)
	Shelters(ctx context.Context, zoneID string) ([]domain.Shelter, error)
	UpdateShelterOccupancy(ctx context.Context, shelterID string, occupancy int) (domain.Shelter, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the risk API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	service    Service
	logger     *slog.Logger
}

// NewServer wires all routes onto a fresh mux.
func NewServer(addr string, service Service, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/zones/{zone_id}/readings", s.handleSubmitReading)
	mux.HandleFunc("GET /api/v1/zones", s.handleListZones)
	mux.HandleFunc("GET /api/v1/zones/{zone_id}", s.handleGetZone)
	mux.HandleFunc("GET /api/v1/zones/{zone_id}/predictions", s.handleZonePredictions)
	mux.HandleFunc("GET /api/v1/zones/{zone_id}/analytics", s.handleZoneAnalytics)
	mux.HandleFunc("GET /api/v1/predictions", s.handleLatestPredictions)
	mux.HandleFunc("GET /api/v1/alerts", s.handleListAlerts)
	mux.HandleFunc("POST /api/v1/alerts/{id}/resolve", s.handleResolveAlert)
	mux.HandleFunc("GET /api/v1/shelters", s.handleListShelters)
	mux.HandleFunc("PATCH /api/v1/shelters/{id}/occupancy", s.handleShelterOccupancy)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}

// writeError maps domain failures onto HTTP status codes: validation 400,
// not-found 404, conflict 409, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
