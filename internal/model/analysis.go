package model

// Trend is the coarse directional classification of a price series.
type Trend string

const (
	TrendUp      Trend = "uptrend"
	TrendDown    Trend = "downtrend"
	TrendNeutral Trend = "neutral"
)

// RiskLevel is the volatility tier of a price series.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Analysis holds the derived statistics for one (symbol, interval) tick
// series. All numeric fields are kept unrounded; rounding happens only when
// a report is formatted.
type Analysis struct {
	Symbol   string
	Interval string

	FirstPrice float64
	LastPrice  float64
	MinPrice   float64
	MaxPrice   float64

	TotalReturn float64 // percent change from first to last close
	Volatility  float64 // population stddev of per-step percent changes
	Trend       Trend

	SupportLevel    float64
	ResistanceLevel float64
	PriceRange      float64

	DataPoints int
}

// VolatilityDetail extends an Analysis with per-step swing statistics.
type VolatilityDetail struct {
	Analysis

	MaxStepChange float64 // largest absolute single-step percent move
	AvgStepChange float64 // mean absolute single-step percent move
	TotalRangePct float64 // (max - min) / min * 100
	Risk          RiskLevel
}

// RankedAnalysis is one row of a multi-symbol performance comparison.
type RankedAnalysis struct {
	Analysis
	Rank int // 1-based, best total return first
}
