package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carelane/noshow/core/logger"
	"github.com/carelane/noshow/core/model"
)

func testBatch() []model.AppointmentContext {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []model.AppointmentContext{{
		AppointmentID:     "a1",
		ProviderSpecialty: "Family Medicine",
		AppointmentTime:   at,
		ScheduledAt:       at.Add(-7 * 24 * time.Hour),
		DurationMinutes:   30,
		IsNewPatient:      true,
	}}
}

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{Enabled: true, URL: url}, logger.Nop{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestPredictDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req wireRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Appointments) != 1 || req.Appointments[0].NewPatientFlag != "NEW PATIENT" {
			t.Errorf("unexpected request %+v", req)
		}
		resp := wireResponse{Predictions: []wirePrediction{{
			AppointmentID:     "a1",
			NoShowProbability: 0.42,
			RiskLevel:         "Medium",
			RiskFactors: []wireFactor{
				{FactorName: "lead_time_days", FactorValue: "7", Contribution: 0.15, Direction: "Increases"},
				{FactorName: "portal_engaged", FactorValue: "true", Contribution: -0.05, Direction: "Decreases"},
			},
		}}}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	defer srv.Close()

	out, err := newClient(t, srv.URL).Predict(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(out) != 1 || out[0].Probability != 0.42 {
		t.Fatalf("unexpected predictions %+v", out)
	}
	if out[0].Factors[1].Direction != model.DirectionDecreases {
		t.Fatalf("direction not decoded: %+v", out[0].Factors)
	}
}

func TestPredictNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not initialized", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL).Predict(context.Background(), testBatch()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestPredictInBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err := json.NewEncoder(w).Encode(wireResponse{Error: "model not initialized"}); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL).Predict(context.Background(), testBatch()); err == nil {
		t.Fatal("expected in-band error")
	}
}

func TestPredictEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err := json.NewEncoder(w).Encode(wireResponse{}); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL).Predict(context.Background(), testBatch()); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestPredictEmptyBatch(t *testing.T) {
	out, err := newClient(t, "http://localhost:1").Predict(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("empty batch must short-circuit, got %v %v", out, err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Enabled: true}, nil); err == nil {
		t.Fatal("expected error for missing url")
	}
}
