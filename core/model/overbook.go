package model

// ProviderOverbookAnalysis summarises one provider's schedule for one day and
// the number of slots that may safely be double-booked.
type ProviderOverbookAnalysis struct {
	ProviderID string
	Specialty  string
	Date       string // YYYY-MM-DD

	TotalAppointments int
	HighRiskCount     int
	MediumRiskCount   int
	ExpectedNoShows   int

	// OverbookCapPct is the specialty policy cap applied, as a fraction
	// of the day's appointments (0.15 = 15%).
	OverbookCapPct float64
	// RecommendedOverbookSlots is bounded by
	// floor(TotalAppointments * OverbookCapPct) and is zero whenever the
	// cap is zero.
	RecommendedOverbookSlots int
}
