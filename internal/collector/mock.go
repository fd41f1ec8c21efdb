package collector

import (
	"context"
	"fmt"

	"StockScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quotes map[string]*model.Quote
	Charts map[string][]model.Tick
	Err    error // returned from every call when set
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("no quote data for symbol %s", symbol)
}

func (m *MockFetcher) FetchChart(_ context.Context, symbol, _ string) ([]model.Tick, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if ticks, ok := m.Charts[symbol]; ok {
		return ticks, nil
	}
	return nil, fmt.Errorf("no chart data for symbol %s", symbol)
}

// GenerateTicks produces a deterministic synthetic series around a base price.
func GenerateTicks(basePrice float64, count int) []model.Tick {
	ticks := make([]model.Tick, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		ticks[i] = model.Tick{Time: int64(i), Close: p}
	}
	return ticks
}
