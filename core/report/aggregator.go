// Package report orders and summarises engine output for the consuming
// layer. It owns no rendering; everything returned is plain data.
package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/carelane/noshow/core/model"
)

// Sort returns a copy of the recommendations ordered for worklist display:
// priority ascending (Urgent first), ties broken by predicted no-show
// probability descending, then appointment ID for a stable output.
func Sort(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].AppointmentID < out[j].AppointmentID
	})
	return out
}

func filter(recs []model.Recommendation, keep func(model.Recommendation) bool) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// UrgentConfirmationCalls returns the calls that must happen first.
func UrgentConfirmationCalls(recs []model.Recommendation) []model.Recommendation {
	return filter(recs, func(r model.Recommendation) bool {
		return r.Action == model.ActionConfirmationCall && r.Priority == model.PriorityUrgent
	})
}

// HighPriorityConfirmationCalls returns the non-urgent call queue.
func HighPriorityConfirmationCalls(recs []model.Recommendation) []model.Recommendation {
	return filter(recs, func(r model.Recommendation) bool {
		return r.Action == model.ActionConfirmationCall && r.Priority == model.PriorityHigh
	})
}

// Reminders returns every reminder recommendation.
func Reminders(recs []model.Recommendation) []model.Recommendation {
	return filter(recs, func(r model.Recommendation) bool {
		return r.Action == model.ActionReminder
	})
}

// OverbookCandidates returns the slots flagged for double booking.
func OverbookCandidates(recs []model.Recommendation) []model.Recommendation {
	return filter(recs, func(r model.Recommendation) bool {
		return r.Action == model.ActionOverbook
	})
}

// ByPatient groups recommendations per patient, preserving the input order
// inside each group. Recommendations without a patient ID are keyed by
// appointment ID so none are dropped.
func ByPatient(recs []model.Recommendation) map[string][]model.Recommendation {
	out := make(map[string][]model.Recommendation)
	for _, r := range recs {
		key := r.PatientID
		if key == "" {
			key = r.AppointmentID
		}
		out[key] = append(out[key], r)
	}
	return out
}

// Summary aggregates a scored batch for a time window.
type Summary struct {
	Total           int
	ByLevel         map[string]int
	ByAction        map[string]int
	MeanProbability float64
	ExpectedNoShows int
	FallbackUsed    bool
}

// Summarize computes batch-level counts from scored appointments and their
// recommendations.
func Summarize(items []model.ScoredAppointment, recs []model.Recommendation) Summary {
	s := Summary{
		Total:    len(items),
		ByLevel:  make(map[string]int),
		ByAction: make(map[string]int),
	}
	probs := make([]float64, 0, len(items))
	for _, it := range items {
		s.ByLevel[it.Assessment.Level.String()]++
		probs = append(probs, it.Assessment.Probability)
		if it.Assessment.Level == model.RiskHigh {
			s.ExpectedNoShows++
		}
		if it.Assessment.Source == model.SourceFallback {
			s.FallbackUsed = true
		}
	}
	for _, r := range recs {
		s.ByAction[r.Action.String()]++
	}
	if len(probs) > 0 {
		s.MeanProbability = stat.Mean(probs, nil)
	}
	return s
}
