// Package overbook computes how many slots a provider's day can absorb as
// double bookings given the predicted no-shows and the specialty policy cap.
package overbook

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/carelane/noshow/core/model"
)

// Policy holds the specialty cap table. Keys are matched case-insensitively;
// specialties not in the table fall back to DefaultCapPct. Caps are
// fractions of the day's appointment count.
type Policy struct {
	Caps          map[string]float64 `json:"caps"`
	DefaultCapPct float64            `json:"default_cap_pct"`
}

// DefaultPolicy returns the standard cap table. Procedural specialties never
// overbook; behavioral health tolerates the most.
func DefaultPolicy() Policy {
	return Policy{
		DefaultCapPct: standardDefaultCap,
		Caps: map[string]float64{
			"orthopedics":       0.00,
			"urology":           0.05,
			"ob/gyn":            0.05,
			"ophthalmology":     0.05,
			"family medicine":   0.15,
			"internal medicine": 0.15,
			"pediatrics":        0.15,
			"psychiatry":        0.20,
			"cardiology":        0.10,
			"dermatology":       0.10,
			"endocrinology":     0.10,
			"gastroenterology":  0.10,
			"neurology":         0.10,
			"pulmonology":       0.10,
			"rheumatology":      0.10,
		},
	}
}

// standardDefaultCap applies to specialties missing from the table.
const standardDefaultCap = 0.10

// SetDefaults fills an empty policy with DefaultPolicy and ensures a partial
// one still applies the standard default to unlisted specialties. A zero
// default cap cannot be expressed in config; list the specialty explicitly
// to forbid overbooking it.
func (p *Policy) SetDefaults() {
	if p.Caps == nil && p.DefaultCapPct == 0 {
		*p = DefaultPolicy()
		return
	}
	if p.DefaultCapPct == 0 {
		p.DefaultCapPct = standardDefaultCap
	}
}

// Validate checks that every cap is a sane fraction.
func (p Policy) Validate() error {
	if p.DefaultCapPct < 0 || p.DefaultCapPct > 1 {
		return fmt.Errorf("default cap %.2f out of range", p.DefaultCapPct)
	}
	for specialty, cap := range p.Caps {
		if cap < 0 || cap > 1 {
			return fmt.Errorf("cap %.2f for %s out of range", cap, specialty)
		}
	}
	return nil
}

// CapFor looks up the overbooking cap for a specialty. Unknown or empty
// specialties get the default cap rather than an error.
func (p Policy) CapFor(specialty string) float64 {
	if cap, ok := p.Caps[strings.ToLower(strings.TrimSpace(specialty))]; ok {
		return cap
	}
	return p.DefaultCapPct
}

// Analyze summarises one (provider, date) group. The group is assumed
// homogeneous; provider, specialty and date are read from the first item.
func (p Policy) Analyze(group []model.ScoredAppointment) model.ProviderOverbookAnalysis {
	if len(group) == 0 {
		return model.ProviderOverbookAnalysis{}
	}

	first := group[0].Appointment
	out := model.ProviderOverbookAnalysis{
		ProviderID:        first.ProviderID,
		Specialty:         first.ProviderSpecialty,
		Date:              first.Date(),
		TotalAppointments: len(group),
		OverbookCapPct:    p.CapFor(first.ProviderSpecialty),
	}

	for _, it := range group {
		switch it.Assessment.Level {
		case model.RiskHigh:
			out.HighRiskCount++
		case model.RiskMedium:
			out.MediumRiskCount++
		}
	}
	// High risk is the predicted-no-show signal here; an explicit binary
	// flag would replace this count if the upstream model supplied one.
	out.ExpectedNoShows = out.HighRiskCount

	if out.OverbookCapPct > 0 {
		maxSlots := int(math.Floor(float64(out.TotalAppointments) * out.OverbookCapPct))
		out.RecommendedOverbookSlots = min(out.ExpectedNoShows, maxSlots)
	}
	return out
}

// AnalyzeBatch groups a scored batch by (provider, date) and analyzes each
// group. Results are ordered by provider then date so output is stable
// regardless of input order.
func (p Policy) AnalyzeBatch(items []model.ScoredAppointment) []model.ProviderOverbookAnalysis {
	type key struct{ provider, date string }
	groups := make(map[key][]model.ScoredAppointment)
	for _, it := range items {
		k := key{it.Appointment.ProviderID, it.Appointment.Date()}
		groups[k] = append(groups[k], it)
	}

	out := make([]model.ProviderOverbookAnalysis, 0, len(groups))
	for _, g := range groups {
		out = append(out, p.Analyze(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProviderID != out[j].ProviderID {
			return out[i].ProviderID < out[j].ProviderID
		}
		return out[i].Date < out[j].Date
	})
	return out
}
