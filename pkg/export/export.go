// Package export converts engine input and output to the interchange
// formats used by the CLI and downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/carelane/noshow/core/engine"
	"github.com/carelane/noshow/core/model"
	"github.com/carelane/noshow/core/report"
)

// Appointment is the JSON input record for one appointment.
type Appointment struct {
	AppointmentID        string    `json:"appointment_id"`
	PatientID            string    `json:"patient_id"`
	ProviderID           string    `json:"provider_id"`
	ProviderSpecialty    string    `json:"provider_specialty"`
	AppointmentTime      time.Time `json:"appointment_time"`
	ScheduledAt          time.Time `json:"scheduled_at"`
	DurationMinutes      int       `json:"duration_minutes"`
	IsNewPatient         bool      `json:"is_new_patient"`
	IsVirtual            bool      `json:"is_virtual"`
	PayerCategory        string    `json:"payer_category"`
	PortalEngaged        bool      `json:"portal_engaged"`
	HistoricalNoShowRate *float64  `json:"historical_no_show_rate,omitempty"`
}

// ToModel converts the input record to the engine's value type.
func (a Appointment) ToModel() model.AppointmentContext {
	return model.AppointmentContext{
		AppointmentID:        a.AppointmentID,
		PatientID:            a.PatientID,
		ProviderID:           a.ProviderID,
		ProviderSpecialty:    a.ProviderSpecialty,
		AppointmentTime:      a.AppointmentTime,
		ScheduledAt:          a.ScheduledAt,
		DurationMinutes:      a.DurationMinutes,
		IsNewPatient:         a.IsNewPatient,
		IsVirtual:            a.IsVirtual,
		PayerCategory:        model.ParsePayerCategory(a.PayerCategory),
		PortalEngaged:        a.PortalEngaged,
		HistoricalNoShowRate: a.HistoricalNoShowRate,
	}
}

// FromModel converts an engine value back to the interchange record.
func FromModel(a model.AppointmentContext) Appointment {
	return Appointment{
		AppointmentID:        a.AppointmentID,
		PatientID:            a.PatientID,
		ProviderID:           a.ProviderID,
		ProviderSpecialty:    a.ProviderSpecialty,
		AppointmentTime:      a.AppointmentTime,
		ScheduledAt:          a.ScheduledAt,
		DurationMinutes:      a.DurationMinutes,
		IsNewPatient:         a.IsNewPatient,
		IsVirtual:            a.IsVirtual,
		PayerCategory:        a.PayerCategory.String(),
		PortalEngaged:        a.PortalEngaged,
		HistoricalNoShowRate: a.HistoricalNoShowRate,
	}
}

// ReadBatch decodes a JSON array of appointments from r.
func ReadBatch(r io.Reader) ([]model.AppointmentContext, error) {
	var in []Appointment
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	out := make([]model.AppointmentContext, len(in))
	for i, a := range in {
		out[i] = a.ToModel()
	}
	return out, nil
}

// WriteBatch encodes appointments as a JSON array.
func WriteBatch(w io.Writer, batch []model.AppointmentContext) error {
	out := make([]Appointment, len(batch))
	for i, a := range batch {
		out[i] = FromModel(a)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Recommendation is the JSON output record for one recommendation.
type Recommendation struct {
	AppointmentID string  `json:"appointment_id"`
	PatientID     string  `json:"patient_id,omitempty"`
	ProviderID    string  `json:"provider_id,omitempty"`
	Action        string  `json:"action"`
	Priority      string  `json:"priority"`
	Rationale     string  `json:"rationale,omitempty"`
	Probability   float64 `json:"probability"`
	RiskLevel     string  `json:"risk_level"`
}

// Report is the JSON shape of a full triage result.
type Report struct {
	Recommendations []Recommendation                 `json:"recommendations"`
	Providers       []model.ProviderOverbookAnalysis `json:"providers"`
	Summary         report.Summary                   `json:"summary"`
	Warning         string                           `json:"warning,omitempty"`
}

func fromRecommendation(r model.Recommendation) Recommendation {
	return Recommendation{
		AppointmentID: r.AppointmentID,
		PatientID:     r.PatientID,
		ProviderID:    r.ProviderID,
		Action:        r.Action.String(),
		Priority:      r.Priority.String(),
		Rationale:     r.Rationale,
		Probability:   r.Probability,
		RiskLevel:     r.Level.String(),
	}
}

// WriteReport writes the triage result to w in JSON format.
func WriteReport(w io.Writer, res engine.Result) error {
	out := Report{
		Recommendations: make([]Recommendation, len(res.Recommendations)),
		Providers:       res.Providers,
		Summary:         res.Summary,
	}
	for i, r := range res.Recommendations {
		out.Recommendations[i] = fromRecommendation(r)
	}
	for _, s := range res.Scored {
		if s.Assessment.Warning != "" {
			out.Warning = s.Assessment.Warning
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteWorklistCSV writes the sorted recommendations to w as the flat list
// front-desk tooling imports.
func WriteWorklistCSV(w io.Writer, recs []model.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"appointment_id", "patient_id", "action", "priority", "probability", "rationale"}); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			r.AppointmentID,
			r.PatientID,
			r.Action.String(),
			r.Priority.String(),
			strconv.FormatFloat(r.Probability, 'f', 3, 64),
			r.Rationale,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
