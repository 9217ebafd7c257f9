package model

// ScoredAppointment pairs an appointment with the assessment produced for
// it. Groups of these flow into the overbooking analyzer and the reports.
type ScoredAppointment struct {
	Appointment AppointmentContext
	Assessment  RiskAssessment
}
