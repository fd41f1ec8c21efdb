package calculator

import (
	"errors"
	"testing"

	"StockScope/internal/model"
)

func TestAnalyzeVolatility_StepChanges(t *testing.T) {
	// Steps are +10% and -10%; both count as 10 in absolute terms.
	d, err := AnalyzeVolatility(ticksFrom(100, 110, 99), "aapl:us", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d.MaxStepChange, 10.0) {
		t.Errorf("max step change: expected 10.0, got %v", d.MaxStepChange)
	}
	if !almostEqual(d.AvgStepChange, 10.0) {
		t.Errorf("avg step change: expected 10.0, got %v", d.AvgStepChange)
	}
	if d.Risk != model.RiskHigh {
		t.Errorf("risk: expected High for volatility 10, got %s", d.Risk)
	}
}

func TestAnalyzeVolatility_SingleStep(t *testing.T) {
	d, err := AnalyzeVolatility(ticksFrom(100, 102), "tsla:us", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d.MaxStepChange, 2.0) || !almostEqual(d.AvgStepChange, 2.0) {
		t.Errorf("single step: expected max=avg=2.0, got max=%v avg=%v", d.MaxStepChange, d.AvgStepChange)
	}
	if !almostEqual(d.Volatility, 0.0) {
		t.Errorf("volatility: expected 0.0, got %v", d.Volatility)
	}
	if d.Risk != model.RiskLow {
		t.Errorf("risk: expected Low for zero volatility, got %s", d.Risk)
	}
}

func TestAnalyzeVolatility_TotalRangePct(t *testing.T) {
	// Range 99..110 over a min of 99.
	d, err := AnalyzeVolatility(ticksFrom(100, 110, 99), "x", "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (110.0 - 99.0) / 99.0 * 100
	if !almostEqual(d.TotalRangePct, want) {
		t.Errorf("total range pct: expected %v, got %v", want, d.TotalRangePct)
	}
}

func TestAnalyzeVolatility_PropagatesErrors(t *testing.T) {
	if _, err := AnalyzeVolatility(ticksFrom(100), "x", "m1"); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := AnalyzeVolatility(ticksFrom(100, 0), "x", "m1"); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestRiskTier_Boundaries(t *testing.T) {
	tests := []struct {
		volatility float64
		want       model.RiskLevel
	}{
		{0.0, model.RiskLow},
		{1.99, model.RiskLow},
		{2.0, model.RiskLow}, // boundary belongs to the lower tier
		{2.01, model.RiskModerate},
		{4.99, model.RiskModerate},
		{5.0, model.RiskModerate}, // boundary belongs to the lower tier
		{5.01, model.RiskHigh},
		{25.0, model.RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskTier(tt.volatility); got != tt.want {
			t.Errorf("volatility %.2f: expected %s, got %s", tt.volatility, tt.want, got)
		}
	}
}
