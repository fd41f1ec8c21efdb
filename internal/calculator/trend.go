package calculator

import (
	"errors"
	"math"

	"StockScope/internal/model"
)

// Trend classification thresholds in percent of total return. These are
// policy constants, not tunables.
const (
	uptrendThreshold   = 2.0
	downtrendThreshold = -2.0
)

// retracementFactor places the support and resistance bands 20% into the
// observed price range from each extreme.
const retracementFactor = 0.2

var (
	// ErrInsufficientData is returned when a series is too short to analyze.
	ErrInsufficientData = errors.New("insufficient data for trend analysis")
	// ErrInvalidPrice is returned when a close price is zero or negative.
	ErrInvalidPrice = errors.New("invalid price data")
	// ErrInsufficientSymbols is returned when fewer than two symbols survive
	// analysis in a comparison.
	ErrInsufficientSymbols = errors.New("need at least 2 symbols for comparison")
)

// Analyze derives trend statistics from a chronological tick series.
// Requires at least 2 ticks and strictly positive close prices.
func Analyze(ticks []model.Tick, symbol, interval string) (*model.Analysis, error) {
	prices, err := closes(ticks)
	if err != nil {
		return nil, err
	}

	first := prices[0]
	last := prices[len(prices)-1]
	minPrice, maxPrice := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	totalReturn := (last - first) / first * 100

	returns := stepReturns(prices)
	volatility := populationStdDev(returns)

	trend := model.TrendNeutral
	if totalReturn > uptrendThreshold {
		trend = model.TrendUp
	} else if totalReturn < downtrendThreshold {
		trend = model.TrendDown
	}

	priceRange := maxPrice - minPrice

	return &model.Analysis{
		Symbol:          symbol,
		Interval:        interval,
		FirstPrice:      first,
		LastPrice:       last,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		TotalReturn:     totalReturn,
		Volatility:      volatility,
		Trend:           trend,
		SupportLevel:    minPrice + priceRange*retracementFactor,
		ResistanceLevel: maxPrice - priceRange*retracementFactor,
		PriceRange:      priceRange,
		DataPoints:      len(ticks),
	}, nil
}

// closes extracts the ordered close prices, rejecting short or malformed series.
func closes(ticks []model.Tick) ([]float64, error) {
	if len(ticks) < 2 {
		return nil, ErrInsufficientData
	}
	prices := make([]float64, len(ticks))
	for i, t := range ticks {
		if t.Close <= 0 {
			return nil, ErrInvalidPrice
		}
		prices[i] = t.Close
	}
	return prices, nil
}

// stepReturns computes the percent change between consecutive prices.
// Callers must have validated prices as strictly positive.
func stepReturns(prices []float64) []float64 {
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1] * 100
	}
	return returns
}

// populationStdDev computes the population standard deviation (divide by n,
// no sample correction, no annualization).
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
