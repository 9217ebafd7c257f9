// Package predictor holds the HTTP client for the hosted no-show model
// endpoint. The engine treats any failure here as a signal to fall back, so
// the client reports errors eagerly instead of retrying.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carelane/noshow/core/logger"
	"github.com/carelane/noshow/core/model"
	"github.com/carelane/noshow/core/prediction"
)

// Config defines the model endpoint settings.
type Config struct {
	Enabled        bool   `json:"enabled"`
	URL            string `json:"url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields when the predictor is enabled.
func (c Config) Validate() error {
	if c.Enabled && c.URL == "" {
		return fmt.Errorf("predictor url is required when enabled")
	}
	return nil
}

// Client calls the scoring endpoint. It implements prediction.Predictor.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}, nil
}

// Wire types match the endpoint's request/response schema.
type wireAppointment struct {
	AppointmentID        string   `json:"appointment_id"`
	LeadTimeDays         int      `json:"lead_time_days"`
	DayOfWeek            int      `json:"day_of_week"`
	HourOfDay            int      `json:"hour_of_day"`
	AppointmentDuration  int      `json:"appointmentduration"`
	ProviderSpecialty    string   `json:"provider_specialty"`
	VirtualFlag          string   `json:"virtual_flag"`
	NewPatientFlag       string   `json:"new_patient_flag"`
	PayerGrouping        string   `json:"sipg2"`
	PortalEngaged        bool     `json:"portal_engaged"`
	HistoricalNoShowRate *float64 `json:"historical_no_show_rate,omitempty"`
}

type wireRequest struct {
	Appointments []wireAppointment `json:"appointments"`
}

type wireFactor struct {
	FactorName   string  `json:"factor_name"`
	FactorValue  string  `json:"factor_value"`
	Contribution float64 `json:"contribution"`
	Direction    string  `json:"direction"`
}

type wirePrediction struct {
	AppointmentID     string       `json:"appointment_id"`
	NoShowProbability float64      `json:"no_show_probability"`
	RiskLevel         string       `json:"risk_level"`
	RiskFactors       []wireFactor `json:"risk_factors"`
}

type wireResponse struct {
	Predictions []wirePrediction `json:"predictions"`
	Error       string           `json:"error,omitempty"`
}

func encodeAppointment(a model.AppointmentContext) wireAppointment {
	virtual := "Non-Virtual"
	if a.IsVirtual {
		virtual = "Virtual-Video"
	}
	newPatient := "EST PATIENT"
	if a.IsNewPatient {
		newPatient = "NEW PATIENT"
	}
	return wireAppointment{
		AppointmentID:        a.AppointmentID,
		LeadTimeDays:         a.LeadTimeDays(),
		DayOfWeek:            int(a.DayOfWeek()),
		HourOfDay:            a.HourOfDay(),
		AppointmentDuration:  a.DurationMinutes,
		ProviderSpecialty:    a.ProviderSpecialty,
		VirtualFlag:          virtual,
		NewPatientFlag:       newPatient,
		PayerGrouping:        a.PayerCategory.String(),
		PortalEngaged:        a.PortalEngaged,
		HistoricalNoShowRate: a.HistoricalNoShowRate,
	}
}

func decodeFactor(f wireFactor) model.RiskFactor {
	dir := model.DirectionIncreases
	if f.Direction == "Decreases" {
		dir = model.DirectionDecreases
	}
	return model.RiskFactor{
		Name:      f.FactorName,
		Value:     f.FactorValue,
		Direction: dir,
		Magnitude: f.Contribution,
	}
}

// Predict posts the batch to the endpoint and decodes the predictions. Any
// transport error, non-200 status, in-band error or empty response for a
// non-empty batch is returned as an error.
func (c *Client) Predict(ctx context.Context, batch []model.AppointmentContext) ([]prediction.Prediction, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	req := wireRequest{Appointments: make([]wireAppointment, len(batch))}
	for i, a := range batch {
		req.Appointments[i] = encodeAppointment(a)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("predictor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, b)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if wire.Error != "" {
		return nil, fmt.Errorf("predictor error: %s", wire.Error)
	}
	if len(wire.Predictions) == 0 {
		return nil, fmt.Errorf("empty prediction response for %d appointments", len(batch))
	}

	out := make([]prediction.Prediction, len(wire.Predictions))
	for i, p := range wire.Predictions {
		factors := make([]model.RiskFactor, len(p.RiskFactors))
		for j, f := range p.RiskFactors {
			factors[j] = decodeFactor(f)
		}
		out[i] = prediction.Prediction{
			AppointmentID: p.AppointmentID,
			Probability:   p.NoShowProbability,
			Factors:       factors,
		}
	}
	c.log.Debugf("predictor returned %d predictions", len(out))
	return out, nil
}
