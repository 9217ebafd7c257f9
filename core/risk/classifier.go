package risk

import (
	"fmt"

	"github.com/carelane/noshow/core/model"
)

// Thresholds holds the risk-level cut points. They are deployment policy,
// not constants: historical call sites disagreed on 0.5 vs 0.6 for "High",
// so the boundary is injectable and defaults to the published scheme.
type Thresholds struct {
	// Low is the exclusive upper bound of the Low tier.
	Low float64 `json:"low"`
	// High is the inclusive upper bound of the Medium tier; anything
	// above is High.
	High float64 `json:"high"`
}

// DefaultThresholds returns the canonical three-level scheme:
// <0.3 Low, 0.3-0.6 Medium, >0.6 High.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.3, High: 0.6}
}

// Validate checks that the cut points form a usable ordering.
func (t Thresholds) Validate() error {
	if t.Low <= 0 || t.High >= 1 {
		return fmt.Errorf("thresholds must lie strictly inside (0,1)")
	}
	if t.Low >= t.High {
		return fmt.Errorf("low threshold %.2f must be below high threshold %.2f", t.Low, t.High)
	}
	return nil
}

// Classify maps a probability to a risk level.
func (t Thresholds) Classify(p float64) model.RiskLevel {
	switch {
	case p < t.Low:
		return model.RiskLow
	case p <= t.High:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// ClampProbability forces externally supplied probabilities into [0,1].
// Malformed model output is repaired, not rejected; callers should log the
// original value.
func ClampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
