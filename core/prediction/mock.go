package prediction

import (
	"context"

	"github.com/carelane/noshow/core/model"
)

// MockPredictor returns configured predictions, in batch order. Useful in
// tests and when wiring the engine without a live endpoint.
type MockPredictor struct {
	Predictions map[string]Prediction
	Err         error
}

// Predict returns the configured prediction for each appointment. IDs
// without an entry get probability 0.5 with no factors.
func (m MockPredictor) Predict(_ context.Context, batch []model.AppointmentContext) ([]Prediction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]Prediction, 0, len(batch))
	for _, a := range batch {
		if p, ok := m.Predictions[a.AppointmentID]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, Prediction{AppointmentID: a.AppointmentID, Probability: 0.5})
	}
	return out, nil
}
