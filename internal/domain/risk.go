package domain

import (
	"fmt"
	"math"
)

// NormalConditionsFactor is the single factor reported when no rule triggers.
const NormalConditionsFactor = "Normal conditions"

// riskRules is the fixed additive rule table. Rules are evaluated in order;
// each triggered rule adds its weight to the probability and its label to the
// top factors. The weights sum to exactly 1.0.
var riskRules = []struct {
	triggered func(Reading) bool
	weight    float64
	label     string
}{
	{func(r Reading) bool { return r.Rain1h > 15 }, 0.30, "Heavy rainfall detected"},
	{func(r Reading) bool { return r.Rain24h > 100 }, 0.25, "24-hour rainfall overload"},
	{func(r Reading) bool { return r.RiverLevel > 4.0 }, 0.25, "Elevated river levels"},
	{func(r Reading) bool { return r.SoilIndex > 0.7 }, 0.20, "High soil saturation"},
}

// ScoreRisk classifies a reading. It is a pure function: no I/O, no clock,
// no dependency on external state, and it cannot fail. Input validation is
// the caller's responsibility; see [Reading.Validate].
func ScoreRisk(r Reading) Assessment {
	var score float64
	var factors []string

	for _, rule := range riskRules {
		if rule.triggered(r) {
			score += rule.weight
			factors = append(factors, rule.label)
		}
	}
	if len(factors) == 0 {
		factors = []string{NormalConditionsFactor}
	}

	probability := math.Min(score, 1.0)
	severity, timeToImpact := bandSeverity(probability)

	return Assessment{
		RiskProbability:   probability,
		Severity:          severity,
		TimeToImpactHours: timeToImpact,
		TopFactors:        factors,
	}
}

// bandSeverity maps a probability onto a severity band and its fixed
// time-to-impact estimate. Bands are half-open, evaluated low to high:
// [0, 0.30) LOW, [0.30, 0.70) MODERATE, [0.70, 1.0] HIGH.
func bandSeverity(probability float64) (Severity, int) {
	switch {
	case probability < 0.30:
		return SeverityLow, 48
	case probability < 0.70:
		return SeverityModerate, 24
	default:
		return SeverityHigh, 6
	}
}

// Validate checks that a reading is physically meaningful: every value finite
// and non-negative, and the soil index within [0, 1]. The scorer itself
// accepts any input; this guard runs at the orchestration boundary so that
// malformed sensor data surfaces as a validation failure, not a bogus score.
func (r Reading) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"rain_1h", r.Rain1h},
		{"rain_24h", r.Rain24h},
		{"river_level", r.RiverLevel},
		{"soil_index", r.SoilIndex},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Reason: "must be a finite number"}
		}
		if f.value < 0 {
			return &ValidationError{Field: f.name, Reason: "must not be negative"}
		}
	}
	if r.SoilIndex > 1 {
		return &ValidationError{Field: "soil_index", Reason: fmt.Sprintf("must be within [0, 1], got %g", r.SoilIndex)}
	}
	return nil
}
