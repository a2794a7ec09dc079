package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floodforge/flood-risk-service/internal/adapter/httpapi"
	"github.com/floodforge/flood-risk-service/internal/domain"
)

// --- mocks ---

type mockService struct {
	prediction domain.Prediction
	alert      domain.Alert
	shelter    domain.Shelter
	err        error

	submittedZone    string
	submittedReading domain.Reading
	resolvedAlertID  string
	alertsFilter     *domain.AlertStatus
	latestLimit      int
	analyticsHours   int
	occupancy        int
}

func (m *mockService) SubmitReading(_ context.Context, zoneID string, reading domain.Reading) (domain.Prediction, error) {
	m.submittedZone = zoneID
	m.submittedReading = reading
	return m.prediction, m.err
}

func (m *mockService) ResolveAlert(_ context.Context, alertID string) (domain.Alert, error) {
	m.resolvedAlertID = alertID
	return m.alert, m.err
}

func (m *mockService) LatestPredictions(_ context.Context, limit int) ([]domain.Prediction, error) {
	m.latestLimit = limit
	return []domain.Prediction{m.prediction}, m.err
}

func (m *mockService) PredictionsByZone(_ context.Context, _ string) ([]domain.Prediction, error) {
	return nil, m.err
}

func (m *mockService) Alerts(_ context.Context, status *domain.AlertStatus) ([]domain.Alert, error) {
	m.alertsFilter = status
	return []domain.Alert{m.alert}, m.err
}

func (m *mockService) AnalyticsInRange(_ context.Context, _ string, hours int) ([]domain.AnalyticsPoint, error) {
	m.analyticsHours = hours
	return nil, m.err
}

func (m *mockService) Zones(_ context.Context) ([]domain.Zone, error) { return nil, m.err }

func (m *mockService) ZoneByID(_ context.Context, _ string) (domain.Zone, error) {
	return domain.Zone{}, m.err
}

func (m *mockService) Shelters(_ context.Context, _ string) ([]domain.Shelter, error) {
	return nil, m.err
}

func (m *mockService) UpdateShelterOccupancy(_ context.Context, _ string, occupancy int) (domain.Shelter, error) {
	m.occupancy = occupancy
	return m.shelter, m.err
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(service *mockService) *httpapi.Server {
	return httpapi.NewServer(":0", service, &mockReadiness{}, slog.Default())
}

func doRequest(srv *httpapi.Server, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHealthz(t *testing.T) {
	rec := doRequest(newTestServer(&mockService{}), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := doRequest(newTestServer(&mockService{}), http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := httpapi.NewServer(":0", &mockService{}, &mockReadiness{err: fmt.Errorf("db unreachable")}, slog.Default())
		rec := doRequest(srv, http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "db unreachable", body["error"])
	})
}

func TestSubmitReading(t *testing.T) {
	service := &mockService{
		prediction: domain.Prediction{
			ID:              "pred-1",
			ZoneID:          "zone-1",
			RiskProbability: 0.3,
			Severity:        domain.SeverityModerate,
			PredictedAt:     time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC),
		},
	}
	srv := newTestServer(service)

	rec := doRequest(srv, http.MethodPost, "/api/v1/zones/zone-1/readings",
		`{"rain_1h":20,"rain_24h":50,"river_level":3.0,"soil_index":0.5}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "zone-1", service.submittedZone)
	assert.Equal(t, domain.Reading{Rain1h: 20, Rain24h: 50, RiverLevel: 3.0, SoilIndex: 0.5}, service.submittedReading)

	var got domain.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "pred-1", got.ID)
	assert.Equal(t, domain.SeverityModerate, got.Severity)
}

func TestSubmitReading_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"malformed body", `{"rain_1h":`, nil, http.StatusBadRequest},
		{"validation failure", `{"rain_1h":-1}`, &domain.ValidationError{Field: "rain_1h", Reason: "must not be negative"}, http.StatusBadRequest},
		{"unknown zone", `{}`, fmt.Errorf("look up zone: %w", domain.ErrNotFound), http.StatusNotFound},
		{"storage failure", `{}`, errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&mockService{err: tt.serviceErr})
			rec := doRequest(srv, http.MethodPost, "/api/v1/zones/zone-1/readings", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestResolveAlert(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		resolvedAt := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
		service := &mockService{
			alert: domain.Alert{ID: "alert-1", Status: domain.StatusResolved, ResolvedAt: &resolvedAt},
		}
		rec := doRequest(newTestServer(service), http.MethodPost, "/api/v1/alerts/alert-1/resolve", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alert-1", service.resolvedAlertID)

		var got domain.Alert
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.StatusResolved, got.Status)
		require.NotNil(t, got.ResolvedAt)
	})

	t.Run("already resolved maps to 409", func(t *testing.T) {
		service := &mockService{err: fmt.Errorf("alert already RESOLVED: %w", domain.ErrConflict)}
		rec := doRequest(newTestServer(service), http.MethodPost, "/api/v1/alerts/alert-1/resolve", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown alert maps to 404", func(t *testing.T) {
		service := &mockService{err: fmt.Errorf("alert: %w", domain.ErrNotFound)}
		rec := doRequest(newTestServer(service), http.MethodPost, "/api/v1/alerts/missing/resolve", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListAlerts(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		service := &mockService{alert: domain.Alert{ID: "alert-1"}}
		rec := doRequest(newTestServer(service), http.MethodGet, "/api/v1/alerts", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, service.alertsFilter)
	})

	t.Run("status filter", func(t *testing.T) {
		service := &mockService{}
		rec := doRequest(newTestServer(service), http.MethodGet, "/api/v1/alerts?status=TRIGGERED", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, service.alertsFilter)
		assert.Equal(t, domain.StatusTriggered, *service.alertsFilter)
	})

	t.Run("bad status", func(t *testing.T) {
		rec := doRequest(newTestServer(&mockService{}), http.MethodGet, "/api/v1/alerts?status=OPEN", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLatestPredictions(t *testing.T) {
	service := &mockService{}
	rec := doRequest(newTestServer(service), http.MethodGet, "/api/v1/predictions?limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, service.latestLimit)

	t.Run("bad limit", func(t *testing.T) {
		rec := doRequest(newTestServer(&mockService{}), http.MethodGet, "/api/v1/predictions?limit=many", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestZoneAnalytics(t *testing.T) {
	service := &mockService{}
	rec := doRequest(newTestServer(service), http.MethodGet, "/api/v1/zones/zone-1/analytics?hours=6", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, service.analyticsHours)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), "nil slice renders as empty list")
}

func TestShelterOccupancy(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		service := &mockService{shelter: domain.Shelter{ID: "shelter-1", CurrentOccupancy: 480}}
		rec := doRequest(newTestServer(service), http.MethodPatch, "/api/v1/shelters/shelter-1/occupancy", `{"occupancy":480}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 480, service.occupancy)
	})

	t.Run("missing occupancy field", func(t *testing.T) {
		rec := doRequest(newTestServer(&mockService{}), http.MethodPatch, "/api/v1/shelters/shelter-1/occupancy", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("over capacity maps to 400", func(t *testing.T) {
		service := &mockService{err: &domain.ValidationError{Field: "occupancy", Reason: "exceeds capacity 500"}}
		rec := doRequest(newTestServer(service), http.MethodPatch, "/api/v1/shelters/shelter-1/occupancy", `{"occupancy":501}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(&mockService{}), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
