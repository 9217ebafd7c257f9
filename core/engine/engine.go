// Package engine orchestrates the triage pipeline: assess each appointment
// in a batch, map assessments to outreach actions, and derive provider-day
// overbooking guidance. The engine holds no mutable state between calls and
// performs no I/O of its own.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/carelane/noshow/core/logger"
	"github.com/carelane/noshow/core/metrics"
	"github.com/carelane/noshow/core/model"
	"github.com/carelane/noshow/core/overbook"
	"github.com/carelane/noshow/core/prediction"
	"github.com/carelane/noshow/core/report"
	"github.com/carelane/noshow/core/risk"
	"github.com/carelane/noshow/core/rules"
)

// Engine runs the full pipeline for appointment batches.
type Engine struct {
	predictor  prediction.Predictor
	scorer     risk.Scorer
	thresholds risk.Thresholds
	rules      *rules.Engine
	policy     overbook.Policy
	log        logger.Logger
	sink       metrics.Sink
	workers    int
}

// New builds an Engine. predictor may be nil, in which case every batch is
// scored heuristically. A nil sink or logger falls back to no-ops.
func New(pred prediction.Predictor, th risk.Thresholds, policy overbook.Policy, log logger.Logger, sink metrics.Sink) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("risk thresholds: %w", err)
	}
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		predictor:  pred,
		scorer:     risk.NewScorer(),
		thresholds: th,
		rules:      rules.NewEngine(),
		policy:     policy,
		log:        log,
		sink:       sink,
		workers:    runtime.GOMAXPROCS(0),
	}, nil
}

// Result is everything the consuming layer needs for one batch.
type Result struct {
	Scored          []model.ScoredAppointment
	Recommendations []model.Recommendation // sorted for worklist display
	Providers       []model.ProviderOverbookAnalysis
	Summary         report.Summary
}

// Triage scores the batch, applies the rule table and computes overbooking
// guidance. now is the caller's reference instant; appointments already in
// the past are skipped. An empty batch yields an empty result, not an
// error.
func (e *Engine) Triage(ctx context.Context, now time.Time, batch []model.AppointmentContext) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	valid := e.filter(now, batch)
	if len(valid) == 0 {
		return Result{Summary: report.Summarize(nil, nil)}, nil
	}

	assessments := e.assess(ctx, valid)

	scored := make([]model.ScoredAppointment, len(valid))
	recs := make([]model.Recommendation, len(valid))
	for i, a := range valid {
		scored[i] = model.ScoredAppointment{Appointment: a, Assessment: assessments[i]}
		recs[i] = e.rules.Recommend(a, assessments[i])
	}

	sorted := report.Sort(recs)
	providers := e.policy.AnalyzeBatch(scored)
	summary := report.Summarize(scored, sorted)

	e.record(now, scored, recs, providers)

	return Result{
		Scored:          scored,
		Recommendations: sorted,
		Providers:       providers,
		Summary:         summary,
	}, nil
}

// filter drops appointments the engine cannot score: malformed records and
// slots already in the past. Both are logged, neither is fatal.
func (e *Engine) filter(now time.Time, batch []model.AppointmentContext) []model.AppointmentContext {
	valid := make([]model.AppointmentContext, 0, len(batch))
	for _, a := range batch {
		if err := a.Validate(); err != nil {
			e.log.Warnf("skipping appointment %s: %v", a.AppointmentID, err)
			continue
		}
		if !a.AppointmentTime.After(now) {
			e.log.Debugf("skipping past appointment %s at %s", a.AppointmentID, a.AppointmentTime)
			continue
		}
		valid = append(valid, a)
	}
	return valid
}

// assess obtains one assessment per appointment, in batch order. The
// external predictor is all-or-nothing: any failure, short response or
// missing ID switches the entire batch to the heuristic scorer so that
// source and warning stay consistent across the batch.
func (e *Engine) assess(ctx context.Context, batch []model.AppointmentContext) []model.RiskAssessment {
	if e.predictor == nil {
		return e.scoreHeuristic(batch, "no external predictor configured")
	}

	preds, err := e.predictor.Predict(ctx, batch)
	reason := ""
	switch {
	case err != nil:
		reason = err.Error()
	case len(preds) != len(batch):
		reason = fmt.Sprintf("predictor returned %d results for %d appointments", len(preds), len(batch))
	default:
		byID := make(map[string]prediction.Prediction, len(preds))
		for _, p := range preds {
			byID[p.AppointmentID] = p
		}
		out := make([]model.RiskAssessment, len(batch))
		for i, a := range batch {
			p, ok := byID[a.AppointmentID]
			if !ok {
				reason = fmt.Sprintf("no prediction for appointment %s", a.AppointmentID)
				break
			}
			prob := p.Probability
			if clamped := risk.ClampProbability(prob); clamped != prob {
				e.log.Warnf("appointment %s: clamping out-of-range probability %v", a.AppointmentID, prob)
				prob = clamped
			}
			out[i] = model.RiskAssessment{
				AppointmentID: a.AppointmentID,
				Probability:   prob,
				Level:         e.thresholds.Classify(prob),
				TopFactors:    risk.TopFactors(p.Factors, risk.DefaultTopFactors),
				Source:        model.SourceExternalModel,
			}
		}
		if reason == "" {
			return out
		}
	}

	e.log.Warnf("external predictor unavailable, falling back for %d appointments: %s", len(batch), reason)
	if rec, ok := e.sink.(metrics.FallbackRecorder); ok {
		if err := rec.RecordFallback(metrics.FallbackEvent{Reason: reason, BatchSize: len(batch), Time: time.Now()}); err != nil {
			e.log.Errorf("record fallback: %v", err)
		}
	}
	return e.scoreHeuristic(batch, "external predictor unavailable: "+reason)
}

// scoreHeuristic runs the fallback scorer over the batch. Appointments are
// independent, so scoring fans out across a bounded worker pool; results are
// written by index, keeping the output order deterministic.
func (e *Engine) scoreHeuristic(batch []model.AppointmentContext, warning string) []model.RiskAssessment {
	out := make([]model.RiskAssessment, len(batch))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			p, factors := e.scorer.Score(batch[i])
			out[i] = model.RiskAssessment{
				AppointmentID: batch[i].AppointmentID,
				Probability:   p,
				Level:         e.thresholds.Classify(p),
				TopFactors:    factors,
				Source:        model.SourceFallback,
				Warning:       warning,
			}
		}(i)
	}
	wg.Wait()
	return out
}

// record pushes the batch outcome to the metrics sink. Sink errors are
// logged, never propagated.
func (e *Engine) record(now time.Time, scored []model.ScoredAppointment, recs []model.Recommendation, providers []model.ProviderOverbookAnalysis) {
	results := make([]metrics.TriageResult, len(scored))
	for i, s := range scored {
		results[i] = metrics.TriageResult{
			AppointmentID: s.Appointment.AppointmentID,
			ProviderID:    s.Appointment.ProviderID,
			Specialty:     s.Appointment.ProviderSpecialty,
			Probability:   s.Assessment.Probability,
			Level:         s.Assessment.Level,
			Action:        recs[i].Action,
			Priority:      recs[i].Priority,
			Source:        s.Assessment.Source,
			Time:          now,
		}
	}
	if err := e.sink.RecordTriageResult(results); err != nil {
		e.log.Errorf("record triage results: %v", err)
	}
	if rec, ok := e.sink.(metrics.OverbookRecorder); ok {
		if err := rec.RecordOverbook(providers); err != nil {
			e.log.Errorf("record overbook analyses: %v", err)
		}
	}
}
