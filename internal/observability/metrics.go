package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the risk service.
type Metrics struct {
	ReadingsSubmitted  prometheus.Counter
	PredictionsCreated *prometheus.CounterVec // label: severity={LOW,MODERATE,HIGH}
	AlertsTriggered    prometheus.Counter
	AlertsResolved     prometheus.Counter
	ValidationFailures prometheus.Counter
	PublishErrors      *prometheus.CounterVec // label: sink={kafka,redis}

	SubmitDuration  prometheus.Histogram
	RiskProbability prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReadingsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "readings_submitted_total",
			Help:      "Total environmental readings accepted for scoring.",
		}),
		PredictionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "predictions_created_total",
			Help:      "Total persisted predictions by severity band.",
		}, []string{"severity"}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "alerts_triggered_total",
			Help:      "Total alerts created from MODERATE or HIGH predictions.",
		}),
		AlertsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "alerts_resolved_total",
			Help:      "Total alerts transitioned to RESOLVED.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "validation_failures_total",
			Help:      "Total readings rejected for out-of-range or non-finite values.",
		}),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "publish_errors_total",
			Help:      "Post-commit publish failures by sink.",
		}, []string{"sink"}),
		SubmitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "submit_duration_seconds",
			Help:      "Duration of a complete reading submission including storage.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RiskProbability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "risk_probability",
			Help:      "Distribution of computed risk probabilities.",
			Buckets:   []float64{0, 0.2, 0.3, 0.45, 0.55, 0.7, 0.8, 1},
		}),
	}

	prometheus.MustRegister(
		m.ReadingsSubmitted,
		m.PredictionsCreated,
		m.AlertsTriggered,
		m.AlertsResolved,
		m.ValidationFailures,
		m.PublishErrors,
		m.SubmitDuration,
		m.RiskProbability,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReadingsSubmitted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_risk", Name: "readings_submitted_total"}),
		PredictionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_risk", Name: "predictions_created_total"}, []string{"severity"}),
		AlertsTriggered:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_risk", Name: "alerts_triggered_total"}),
		AlertsResolved:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_risk", Name: "alerts_resolved_total"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_risk", Name: "validation_failures_total"}),
		PublishErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_risk", Name: "publish_errors_total"}, []string{"sink"}),
		SubmitDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_risk", Name: "submit_duration_seconds"}),
		RiskProbability:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_risk", Name: "risk_probability"}),
	}
}
