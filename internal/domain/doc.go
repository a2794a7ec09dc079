// Package domain models flood-risk monitoring data and the rule-based
// classifier that scores it.
//
// # Risk Model
//
// Flood risk is scored by a fixed additive rule model, not a trained model.
// Four environmental conditions each contribute a weight when exceeded:
//
//	rain_1h     > 15 mm   +0.30  "Heavy rainfall detected"
//	rain_24h    > 100 mm  +0.25  "24-hour rainfall overload"
//	river_level > 4.0 m   +0.25  "Elevated river levels"
//	soil_index  > 0.7     +0.20  "High soil saturation"
//
// The risk probability is the sum of triggered weights clamped to 1.0. The
// four weights sum to exactly 1.0, so the clamp only matters if the weights
// are ever changed; it must be kept if they are.
//
// # Severity Bands
//
// Probability maps to a three-level severity with a fixed time-to-impact
// estimate, using half-open intervals evaluated low to high:
//
//	p < 0.30         LOW       48h to impact
//	0.30 <= p < 0.70 MODERATE  24h to impact
//	p >= 0.70        HIGH      6h to impact
//
// # Top Factors
//
// Each triggered rule contributes its label, in rule-table order, to the
// prediction's top factors. When nothing triggers, the list is exactly
// ["Normal conditions"]; it is never empty.
//
// # Alert Lifecycle
//
// A MODERATE or HIGH prediction spawns an alert in status TRIGGERED. The only
// transition is TRIGGERED → RESOLVED, applied once by an explicit operator
// action; RESOLVED is terminal and re-resolving fails with [ErrConflict].
// ResolvedAt is set if and only if the status is RESOLVED.
//
// Alerts are deliberately not deduplicated: every qualifying prediction
// creates a new alert, one per triggering event rather than one per zone.
package domain
