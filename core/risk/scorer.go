package risk

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/carelane/noshow/core/model"
)

// Scorer is the heuristic no-show estimator used when the external model is
// unreachable. It is pure and never fails: every appointment gets a bounded
// probability and a ranked explanation.
type Scorer struct {
	Base    float64
	Weights FactorWeights
	// TopN limits how many factors are reported.
	TopN int
}

// NewScorer returns a scorer with the calibrated defaults.
func NewScorer() Scorer {
	return Scorer{Base: baseRate, Weights: DefaultFactorWeights(), TopN: 3}
}

// Score estimates the no-show probability for one appointment. The result is
// always within [0.05, 0.95]. Factors are emitted only for conditions that
// fired, ranked by absolute magnitude with ties kept in evaluation order.
func (s Scorer) Score(a model.AppointmentContext) (float64, []model.RiskFactor) {
	p := s.Base
	var factors []model.RiskFactor

	if lt := a.LeadTimeDays(); lt > leadTimeFreeDay {
		p += math.Min(leadTimeMax, float64(lt-leadTimeFreeDay)*leadTimePerDay)
		factors = append(factors, model.RiskFactor{
			Name:      "lead_time_days",
			Value:     strconv.Itoa(lt),
			Direction: model.DirectionIncreases,
			Magnitude: s.Weights.LeadTime,
		})
	}
	if wd := a.DayOfWeek(); wd == time.Monday || wd == time.Friday {
		p += weekdayEdgeBump
		factors = append(factors, model.RiskFactor{
			Name:      "day_of_week",
			Value:     wd.String(),
			Direction: model.DirectionIncreases,
			Magnitude: s.Weights.DayOfWeek,
		})
	}
	if h := a.HourOfDay(); h >= afternoonStartHr && h < afternoonEndHr {
		p += afternoonBump
		factors = append(factors, model.RiskFactor{
			Name:      "hour_of_day",
			Value:     strconv.Itoa(h),
			Direction: model.DirectionIncreases,
			Magnitude: s.Weights.TimeOfDay,
		})
	}
	if a.IsNewPatient {
		p += newPatientBump
		factors = append(factors, model.RiskFactor{
			Name:      "new_patient",
			Value:     "true",
			Direction: model.DirectionIncreases,
			Magnitude: s.Weights.NewPatient,
		})
	}
	if a.PortalEngaged {
		p -= portalDiscount
		factors = append(factors, model.RiskFactor{
			Name:      "portal_engaged",
			Value:     "true",
			Direction: model.DirectionDecreases,
			Magnitude: s.Weights.Portal,
		})
	}
	if a.PayerCategory == model.PayerMedicaid || a.PayerCategory == model.PayerSelfPay {
		p += payerBump
		factors = append(factors, model.RiskFactor{
			Name:      "payer_category",
			Value:     a.PayerCategory.String(),
			Direction: model.DirectionIncreases,
			Magnitude: s.Weights.Insurance,
		})
	}

	if p < minProbability {
		p = minProbability
	}
	if p > maxProbability {
		p = maxProbability
	}
	n := s.TopN
	if n <= 0 {
		n = DefaultTopFactors
	}
	return p, TopFactors(factors, n)
}

// DefaultTopFactors is how many factors an assessment reports.
const DefaultTopFactors = 3

// TopFactors keeps the n strongest contributors, ranked by absolute
// magnitude. The stable sort preserves the input order for equal magnitudes.
// The input slice is not modified.
func TopFactors(factors []model.RiskFactor, n int) []model.RiskFactor {
	ranked := make([]model.RiskFactor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Magnitude) > math.Abs(ranked[j].Magnitude)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
