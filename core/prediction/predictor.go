// Package prediction defines the boundary to the external no-show model.
// The engine treats the predictor as optional: any failure switches the
// whole batch to the heuristic scorer.
package prediction

import (
	"context"

	"github.com/carelane/noshow/core/model"
)

// Prediction is the external model's answer for one appointment.
type Prediction struct {
	AppointmentID string
	Probability   float64
	Factors       []model.RiskFactor
}

// Predictor scores appointment batches. Implementations may block on the
// network and must honour the context deadline. An error (or an empty
// response for a non-empty batch) means the caller falls back for the
// entire batch.
type Predictor interface {
	Predict(ctx context.Context, batch []model.AppointmentContext) ([]Prediction, error)
}
