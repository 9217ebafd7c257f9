package risk

import (
	"testing"

	"github.com/carelane/noshow/core/model"
)

func TestClassifyBoundaries(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		p    float64
		want model.RiskLevel
	}{
		{0.0, model.RiskLow},
		{0.29, model.RiskLow},
		{0.3, model.RiskMedium},
		{0.45, model.RiskMedium},
		{0.6, model.RiskMedium},
		{0.61, model.RiskHigh},
		{1.0, model.RiskHigh},
	}
	for _, c := range cases {
		if got := th.Classify(c.p); got != c.want {
			t.Fatalf("classify(%v): expected %s got %s", c.p, c.want, got)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := Thresholds{Low: 0.7, High: 0.4}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
	if err := (Thresholds{Low: 0, High: 0.6}).Validate(); err == nil {
		t.Fatal("expected error for zero low threshold")
	}
}

func TestClampProbability(t *testing.T) {
	if got := ClampProbability(-0.2); got != 0 {
		t.Fatalf("expected 0 got %v", got)
	}
	if got := ClampProbability(1.7); got != 1 {
		t.Fatalf("expected 1 got %v", got)
	}
	if got := ClampProbability(0.42); got != 0.42 {
		t.Fatalf("expected 0.42 got %v", got)
	}
}
