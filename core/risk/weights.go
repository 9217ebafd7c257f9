package risk

// FactorWeights centralises the magnitude assigned to each heuristic factor.
// The same table drives both scoring and the "top factors" text so the
// rationale shown to schedulers always matches the weights actually applied.
type FactorWeights struct {
	LeadTime   float64 `json:"lead_time"`
	NewPatient float64 `json:"new_patient"`
	Insurance  float64 `json:"insurance"`
	DayOfWeek  float64 `json:"day_of_week"`
	TimeOfDay  float64 `json:"time_of_day"`
	Portal     float64 `json:"portal"`
}

// DefaultFactorWeights returns the calibrated magnitudes.
func DefaultFactorWeights() FactorWeights {
	return FactorWeights{
		LeadTime:   0.15,
		NewPatient: 0.12,
		Insurance:  0.10,
		DayOfWeek:  0.10,
		TimeOfDay:  0.08,
		Portal:     -0.05,
	}
}

// Probability modifiers applied by the fallback scorer. Separate from the
// factor magnitudes above: modifiers move the estimate, magnitudes rank the
// explanation.
const (
	baseRate = 0.18

	leadTimePerDay  = 0.01
	leadTimeMax     = 0.15
	leadTimeFreeDay = 7

	weekdayEdgeBump  = 0.05
	afternoonBump    = 0.05
	newPatientBump   = 0.10
	portalDiscount   = 0.05
	payerBump        = 0.08
	afternoonStartHr = 14
	afternoonEndHr   = 17

	// Fallback estimates never claim certainty in either direction.
	minProbability = 0.05
	maxProbability = 0.95
)
