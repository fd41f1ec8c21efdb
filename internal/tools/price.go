package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"StockScope/internal/calculator"
	"StockScope/internal/collector"
	"StockScope/internal/model"
)

// DefaultSummarySymbols is the symbol set used by get_market_summary when
// the caller provides none.
var DefaultSummarySymbols = []string{"aapl:us", "tsla:us", "msft:us", "googl:us"}

// PriceTools exposes the share-price tool set over MCP.
type PriceTools struct {
	Fetcher collector.Fetcher
}

// NewPriceTools creates the price tool set backed by the given fetcher.
func NewPriceTools(fetcher collector.Fetcher) *PriceTools {
	return &PriceTools{Fetcher: fetcher}
}

// Register adds all price tools to the MCP server.
func (p *PriceTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_share_price",
		mcp.WithDescription("Get real-time share price and market data for a stock"),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock symbol (e.g., 'aapl:us', 'tsla:us', 'msft:us')")),
	), p.handleGetSharePrice)

	s.AddTool(mcp.NewTool("get_price_chart_analysis",
		mcp.WithDescription("Get price chart analysis with trend, volatility, and key levels"),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock symbol (e.g., 'aapl:us', 'tsla:us', 'msft:us')")),
		mcp.WithString("interval",
			mcp.Description("Time period (d1|d3|ytd|m1|m3|m6|y1|y5) - defaults to 3 months"),
			mcp.DefaultString("m3"), mcp.Enum(model.Intervals...)),
	), p.handleChartAnalysis)

	s.AddTool(mcp.NewTool("compare_stock_performance",
		mcp.WithDescription("Compare performance of multiple stocks over a specified time period"),
		mcp.WithArray("symbols", mcp.Required(),
			mcp.Description("List of stock symbols to compare (e.g., ['aapl:us', 'tsla:us'])"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("interval",
			mcp.Description("Time period (d1|d3|ytd|m1|m3|m6|y1|y5) - defaults to 3 months"),
			mcp.DefaultString("m3"), mcp.Enum(model.Intervals...)),
	), p.handleComparePerformance)

	s.AddTool(mcp.NewTool("analyze_stock_volatility",
		mcp.WithDescription("Analyze stock volatility and price swings over a specified period"),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock symbol (e.g., 'aapl:us', 'tsla:us')")),
		mcp.WithString("interval",
			mcp.Description("Time period (d1|d3|ytd|m1|m3|m6|y1|y5) - defaults to 1 month"),
			mcp.DefaultString("m1"), mcp.Enum(model.Intervals...)),
	), p.handleVolatility)

	s.AddTool(mcp.NewTool("compare_stocks",
		mcp.WithDescription("Compare multiple stocks side by side"),
		mcp.WithArray("symbols", mcp.Required(),
			mcp.Description("Array of stock symbols to compare (e.g., ['aapl:us', 'tsla:us'])"),
			mcp.Items(map[string]any{"type": "string"})),
	), p.handleCompareStocks)

	s.AddTool(mcp.NewTool("get_market_summary",
		mcp.WithDescription("Get market summary for popular stocks"),
		mcp.WithArray("stocks",
			mcp.Description("Optional list of specific stocks, defaults to popular stocks"),
			mcp.Items(map[string]any{"type": "string"})),
	), p.handleMarketSummary)
}

func (p *PriceTools) handleGetSharePrice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, err := req.RequireString("symbol")
	if err != nil || symbol == "" {
		return mcp.NewToolResultError("Error: Symbol is required"), nil
	}

	quote, err := p.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		logrus.Warnf("fetch quote %s: %v", symbol, err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: Could not fetch data for symbol %s", symbol)), nil
	}
	return mcp.NewToolResultText(FormatQuote(quote, symbol)), nil
}

func (p *PriceTools) handleChartAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, err := req.RequireString("symbol")
	if err != nil || symbol == "" {
		return mcp.NewToolResultError("Error: Symbol is required"), nil
	}
	interval := req.GetString("interval", "m3")
	if !model.ValidInterval(interval) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Invalid interval. Use one of: %s", model.IntervalList())), nil
	}

	ticks, err := p.Fetcher.FetchChart(ctx, symbol, interval)
	if err != nil {
		logrus.Warnf("fetch chart %s/%s: %v", symbol, interval, err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: Could not fetch chart data for %s", symbol)), nil
	}
	if len(ticks) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Error: No chart data available for %s", symbol)), nil
	}

	analysis, err := calculator.Analyze(ticks, symbol, interval)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("❌ %v", err)), nil
	}
	return mcp.NewToolResultText(FormatAnalysis(analysis)), nil
}

func (p *PriceTools) handleComparePerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbols := req.GetStringSlice("symbols", nil)
	if len(symbols) < 2 {
		return mcp.NewToolResultError("Error: Need at least 2 symbols for comparison"), nil
	}
	interval := req.GetString("interval", "m3")
	if !model.ValidInterval(interval) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Invalid interval. Use one of: %s", model.IntervalList())), nil
	}

	// Fetch and analyze concurrently; failed symbols are dropped, survivors
	// keep their request order so that ranking ties stay deterministic.
	results := make([]*model.Analysis, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			ticks, err := p.Fetcher.FetchChart(ctx, symbol, interval)
			if err != nil || len(ticks) == 0 {
				logrus.Warnf("compare: skipping %s: %v", symbol, err)
				return
			}
			analysis, err := calculator.Analyze(ticks, symbol, interval)
			if err != nil {
				logrus.Warnf("compare: analysis failed for %s: %v", symbol, err)
				return
			}
			results[i] = analysis
		}(i, symbol)
	}
	wg.Wait()

	analyses := make([]*model.Analysis, 0, len(results))
	for _, a := range results {
		if a != nil {
			analyses = append(analyses, a)
		}
	}
	ranked, err := calculator.Rank(analyses)
	if err != nil {
		return mcp.NewToolResultError("Error: Could not fetch chart data for enough of the provided symbols"), nil
	}
	return mcp.NewToolResultText(FormatComparison(ranked)), nil
}

func (p *PriceTools) handleVolatility(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, err := req.RequireString("symbol")
	if err != nil || symbol == "" {
		return mcp.NewToolResultError("Error: Symbol is required"), nil
	}
	interval := req.GetString("interval", "m1")
	if !model.ValidInterval(interval) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Invalid interval. Use one of: %s", model.IntervalList())), nil
	}

	ticks, err := p.Fetcher.FetchChart(ctx, symbol, interval)
	if err != nil {
		logrus.Warnf("fetch chart %s/%s: %v", symbol, interval, err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: Could not fetch chart data for %s", symbol)), nil
	}
	if len(ticks) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Error: No chart data available for %s", symbol)), nil
	}

	detail, err := calculator.AnalyzeVolatility(ticks, symbol, interval)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("❌ %v", err)), nil
	}
	return mcp.NewToolResultText(FormatVolatility(detail)), nil
}

func (p *PriceTools) handleCompareStocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbols := req.GetStringSlice("symbols", nil)
	if len(symbols) == 0 {
		return mcp.NewToolResultError("Error: At least one symbol is required"), nil
	}

	entries := p.fetchQuotes(ctx, symbols)
	if len(entries) == 0 {
		return mcp.NewToolResultError("Error: Could not fetch data for any of the provided symbols"), nil
	}
	return mcp.NewToolResultText(FormatSnapshotComparison(entries)), nil
}

func (p *PriceTools) handleMarketSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbols := req.GetStringSlice("stocks", nil)
	text, err := p.SummaryText(ctx, symbols)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// SummaryText builds the market summary report for the given symbols
// (DefaultSummarySymbols when empty). Shared with the scheduled digest.
func (p *PriceTools) SummaryText(ctx context.Context, symbols []string) (string, error) {
	if len(symbols) == 0 {
		symbols = DefaultSummarySymbols
	}
	entries := p.fetchQuotes(ctx, symbols)
	if len(entries) == 0 {
		return "", errors.New("Error: Could not fetch market summary data")
	}
	gainers, decliners := calculator.Partition(entries)
	return FormatMarketSummary(gainers, decliners), nil
}

// fetchQuotes fans out quote fetches concurrently and returns the successful
// entries in the original request order.
func (p *PriceTools) fetchQuotes(ctx context.Context, symbols []string) []model.QuoteEntry {
	results := make([]*model.Quote, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := p.Fetcher.FetchQuote(ctx, symbol)
			if err != nil {
				logrus.Warnf("fetch quote %s: %v", symbol, err)
				return
			}
			results[i] = quote
		}(i, symbol)
	}
	wg.Wait()

	entries := make([]model.QuoteEntry, 0, len(symbols))
	for i, quote := range results {
		if quote != nil {
			entries = append(entries, model.QuoteEntry{Symbol: symbols[i], Quote: quote})
		}
	}
	return entries
}
