package rules

import (
	"strings"

	"github.com/carelane/noshow/core/model"
)

// Policy constants referenced by the rule table.
const (
	// Appointments at or above this length are hard to backfill.
	longDurationMin = 45
	// Below this lead time there is no room for phone outreach.
	shortLeadDays = 3
	// Above this lead time high-risk patients get proactive calls.
	longLeadDays = 14
	// Hours before noon are prioritised for confirmation calls.
	morningEndHr = 12
)

type outcome struct {
	action   model.ActionType
	priority model.Priority
	note     string
}

// rule pairs a predicate with its outcome. Rules are evaluated in slice
// order and the first match wins; there is no fallthrough.
type rule struct {
	name    string
	matches func(model.AppointmentContext, model.RiskAssessment) bool
	out     outcome
}

// Engine turns a scored appointment into a scheduling action. It is a total
// function: every (appointment, assessment) pair maps to exactly one
// recommendation.
type Engine struct {
	rules []rule
}

// NewEngine returns the engine with the standard outreach policy.
func NewEngine() *Engine {
	return &Engine{rules: standardRules()}
}

// Recommend evaluates the rule table top to bottom and returns the outcome
// of the first matching rule. The rationale carries the top contributing
// factors of the assessment.
func (e *Engine) Recommend(a model.AppointmentContext, r model.RiskAssessment) model.Recommendation {
	out := outcome{action: model.ActionNone, priority: model.PriorityLow}
	for _, rl := range e.rules {
		if rl.matches(a, r) {
			out = rl.out
			break
		}
	}
	return model.Recommendation{
		AppointmentID: a.AppointmentID,
		PatientID:     a.PatientID,
		ProviderID:    a.ProviderID,
		Action:        out.action,
		Priority:      out.priority,
		Rationale:     rationale(out.note, r.TopFactors),
		Probability:   r.Probability,
		Level:         r.Level,
	}
}

// rationale joins the rule note with the factor summary. Either part may be
// empty; a recommendation with neither stays blank.
func rationale(note string, factors []model.RiskFactor) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, f.Name+" ("+f.Direction.String()+" risk)")
	}
	switch {
	case note == "":
		return strings.Join(parts, ", ")
	case len(parts) == 0:
		return note
	default:
		return note + "; " + strings.Join(parts, ", ")
	}
}

// topFactorMentionsHistory reports whether the leading factor points at the
// patient's attendance record.
func topFactorMentionsHistory(r model.RiskAssessment) bool {
	if len(r.TopFactors) == 0 {
		return false
	}
	name := strings.ToLower(r.TopFactors[0].Name)
	return strings.Contains(name, "historical") ||
		strings.Contains(name, "no-show") ||
		strings.Contains(name, "no_show")
}

func hardToBackfill(a model.AppointmentContext) bool {
	return a.IsNewPatient || a.DurationMinutes >= longDurationMin
}

// standardRules builds the ordered policy table. Order is load-bearing:
// renumbering changes behaviour.
func standardRules() []rule {
	return []rule{
		{
			name: "low_risk_no_action",
			matches: func(_ model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskLow
			},
			out: outcome{model.ActionNone, model.PriorityLow, ""},
		},
		{
			name: "medium_virtual_link",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskMedium && a.IsVirtual
			},
			out: outcome{model.ActionReminder, model.PriorityLow, "send link 1h before"},
		},
		{
			name: "medium_hard_to_backfill",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskMedium && hardToBackfill(a)
			},
			out: outcome{model.ActionConfirmationCall, model.PriorityHigh, "hard-to-backfill slot"},
		},
		{
			name: "medium_short_lead_sms",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskMedium && a.LeadTimeDays() < shortLeadDays
			},
			out: outcome{model.ActionReminder, model.PriorityMedium, "short lead time, SMS"},
		},
		{
			name: "medium_default_reminder",
			matches: func(_ model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskMedium
			},
			out: outcome{model.ActionReminder, model.PriorityMedium, "standard 24h reminder"},
		},
		{
			name: "high_virtual_nudges",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && a.IsVirtual
			},
			out: outcome{model.ActionReminder, model.PriorityMedium, "telehealth link + nudges"},
		},
		{
			name: "high_repeat_no_show_overbook",
			matches: func(_ model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && topFactorMentionsHistory(r)
			},
			out: outcome{model.ActionOverbook, model.PriorityUrgent, "historical repeat no-show"},
		},
		{
			name: "high_hard_to_backfill",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && hardToBackfill(a)
			},
			out: outcome{model.ActionConfirmationCall, model.PriorityUrgent, "high-value slot at risk"},
		},
		{
			name: "high_long_lead_outreach",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && a.LeadTimeDays() > longLeadDays
			},
			out: outcome{model.ActionConfirmationCall, model.PriorityHigh, "proactive outreach"},
		},
		{
			name: "high_short_lead_reminder",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && a.LeadTimeDays() < shortLeadDays
			},
			out: outcome{model.ActionReminder, model.PriorityHigh, "no time for phone tag"},
		},
		{
			name: "high_morning_call",
			matches: func(a model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh && a.HourOfDay() < morningEndHr
			},
			out: outcome{model.ActionConfirmationCall, model.PriorityUrgent, "priority morning call"},
		},
		{
			name: "high_default_call",
			matches: func(_ model.AppointmentContext, r model.RiskAssessment) bool {
				return r.Level == model.RiskHigh
			},
			out: outcome{model.ActionConfirmationCall, model.PriorityHigh, "standard high-risk call"},
		},
	}
}
