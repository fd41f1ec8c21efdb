package collector

import (
	"context"

	"StockScope/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchQuote returns the current snapshot for one symbol.
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	// FetchChart returns the tick series for one symbol over the given interval.
	FetchChart(ctx context.Context, symbol, interval string) ([]model.Tick, error)
	Name() string
}
