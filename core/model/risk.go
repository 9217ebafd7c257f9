package model

// RiskLevel buckets a no-show probability into the three operational tiers.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns a human-readable representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "unknown"
	}
}

// FactorDirection indicates whether a factor pushed the probability up or
// down.
type FactorDirection int

const (
	DirectionIncreases FactorDirection = iota
	DirectionDecreases
)

// String returns a human-readable representation of the direction.
func (d FactorDirection) String() string {
	if d == DirectionDecreases {
		return "Decreases"
	}
	return "Increases"
}

// RiskFactor describes one contribution to a risk estimate.
type RiskFactor struct {
	Name      string
	Value     string
	Direction FactorDirection
	// Magnitude is the fixed weight of the factor. Factors are ranked by
	// absolute magnitude when selecting the top contributors.
	Magnitude float64
}

// AssessmentSource records which scorer produced an assessment.
type AssessmentSource int

const (
	SourceExternalModel AssessmentSource = iota
	SourceFallback
)

// String returns a human-readable representation of the source.
func (s AssessmentSource) String() string {
	if s == SourceFallback {
		return "Fallback"
	}
	return "ExternalModel"
}

// RiskAssessment is the scored view of a single appointment. It is derived
// per request and never persisted.
type RiskAssessment struct {
	AppointmentID string
	Probability   float64
	Level         RiskLevel
	// TopFactors holds at most three factors ordered by descending
	// absolute magnitude.
	TopFactors []RiskFactor
	Source     AssessmentSource
	// Warning is non-empty when the external predictor was unavailable
	// and the whole batch fell back to the heuristic scorer.
	Warning string
}
