package model

// ActionType enumerates the scheduling actions the engine can recommend.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionReminder
	ActionConfirmationCall
	ActionOverbook
)

// String returns a human-readable representation of the action type.
func (a ActionType) String() string {
	switch a {
	case ActionNone:
		return "NoAction"
	case ActionReminder:
		return "Reminder"
	case ActionConfirmationCall:
		return "ConfirmationCall"
	case ActionOverbook:
		return "Overbook"
	default:
		return "unknown"
	}
}

// Priority orders recommendations for front-desk staff. Lower values sort
// first.
type Priority int

const (
	PriorityUrgent Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "unknown"
	}
}

// Recommendation pairs an appointment with the action the rule engine
// selected for it.
type Recommendation struct {
	AppointmentID string
	PatientID     string
	ProviderID    string
	Action        ActionType
	Priority      Priority
	Rationale     string
	// Probability echoes the assessment so consumers can tie-break equal
	// priorities by predicted no-show likelihood.
	Probability float64
	Level       RiskLevel
}
