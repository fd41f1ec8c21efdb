package calculator

import (
	"math"

	"StockScope/internal/model"
)

// Risk tier boundaries in volatility percent. A boundary value belongs to
// the lower tier: exactly 2.0 is Low, exactly 5.0 is Moderate.
const (
	lowRiskMax      = 2.0
	moderateRiskMax = 5.0
)

// AnalyzeVolatility extends Analyze with per-step swing statistics over the
// same raw price sequence.
func AnalyzeVolatility(ticks []model.Tick, symbol, interval string) (*model.VolatilityDetail, error) {
	analysis, err := Analyze(ticks, symbol, interval)
	if err != nil {
		return nil, err
	}

	prices, err := closes(ticks)
	if err != nil {
		return nil, err
	}

	var maxChange, sumChange float64
	returns := stepReturns(prices)
	for _, r := range returns {
		abs := math.Abs(r)
		if abs > maxChange {
			maxChange = abs
		}
		sumChange += abs
	}
	avgChange := 0.0
	if len(returns) > 0 {
		avgChange = sumChange / float64(len(returns))
	}

	if analysis.MinPrice == 0 {
		return nil, ErrInvalidPrice
	}
	totalRangePct := (analysis.MaxPrice - analysis.MinPrice) / analysis.MinPrice * 100

	return &model.VolatilityDetail{
		Analysis:      *analysis,
		MaxStepChange: maxChange,
		AvgStepChange: avgChange,
		TotalRangePct: totalRangePct,
		Risk:          RiskTier(analysis.Volatility),
	}, nil
}

// RiskTier classifies a volatility value into Low, Moderate, or High.
func RiskTier(volatility float64) model.RiskLevel {
	switch {
	case volatility <= lowRiskMax:
		return model.RiskLow
	case volatility <= moderateRiskMax:
		return model.RiskModerate
	default:
		return model.RiskHigh
	}
}
