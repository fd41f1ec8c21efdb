package model

import "strings"

// Tick is a single closing-price observation from the chart endpoint.
type Tick struct {
	Time  int64   `json:"time"`
	Close float64 `json:"close"`
}

// Quote is a snapshot of current market data for one symbol.
type Quote struct {
	Name      string  `json:"name"`
	Last      float64 `json:"last"`
	Currency  string  `json:"currency"`
	NetChange float64 `json:"netChange"`
	PctChange float64 `json:"pctChange"`
	DayHigh   float64 `json:"dayHigh"`
	DayLow    float64 `json:"dayLow"`
	YearHigh  float64 `json:"yearHigh"`
	YearLow   float64 `json:"yearLow"`
	Volume    float64 `json:"volume"`
	Exchange  string  `json:"exchange"`
}

// QuoteEntry pairs a quote with the symbol it was requested for,
// preserving request order through multi-symbol operations.
type QuoteEntry struct {
	Symbol string
	Quote  *Quote
}

// Intervals lists the chart windows accepted by the data provider.
var Intervals = []string{"d1", "d3", "ytd", "m1", "m3", "m6", "y1", "y5"}

var intervalNames = map[string]string{
	"d1":  "1 Day",
	"d3":  "3 Days",
	"ytd": "Year-to-Date",
	"m1":  "1 Month",
	"m3":  "3 Months",
	"m6":  "6 Months",
	"y1":  "1 Year",
	"y5":  "5 Years",
}

// ValidInterval reports whether s is an accepted chart interval code.
func ValidInterval(s string) bool {
	_, ok := intervalNames[s]
	return ok
}

// IntervalName returns the display name for an interval code, or the code
// itself when unknown.
func IntervalName(s string) string {
	if name, ok := intervalNames[s]; ok {
		return name
	}
	return s
}

// IntervalList returns the accepted interval codes joined for error messages.
func IntervalList() string {
	return strings.Join(Intervals, ", ")
}
