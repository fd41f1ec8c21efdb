package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockScope/internal/model"
)

// Provider call deadlines. Chart responses are larger and get a longer budget.
const (
	quoteTimeout = 10 * time.Second
	chartTimeout = 15 * time.Second
)

// BBFinanceFetcher implements Fetcher using the bb-finance RapidAPI endpoints.
type BBFinanceFetcher struct {
	QuoteURL string
	ChartURL string
	APIHost  string
	APIKey   string
	Client   *http.Client
}

// NewBBFinanceFetcher creates a fetcher with optional proxy support.
func NewBBFinanceFetcher(quoteURL, chartURL, apiHost, apiKey, proxyURL string) *BBFinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BBFinanceFetcher{
		QuoteURL: quoteURL,
		ChartURL: chartURL,
		APIHost:  apiHost,
		APIKey:   apiKey,
		Client:   &http.Client{Transport: transport},
	}
}

func (f *BBFinanceFetcher) Name() string { return "bb-finance" }

// FetchQuote fetches the current market snapshot for a symbol.
func (f *BBFinanceFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?id=%s", f.QuoteURL, url.QueryEscape(strings.ToLower(symbol)))
	var payload struct {
		Result map[string]*model.Quote `json:"result"`
	}
	if err := f.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	// The provider keys the single result object by symbol; take the first entry.
	for _, quote := range payload.Result {
		return quote, nil
	}
	return nil, fmt.Errorf("no quote data for symbol %s", symbol)
}

// FetchChart fetches the tick series for a symbol over the given interval.
func (f *BBFinanceFetcher) FetchChart(ctx context.Context, symbol, interval string) ([]model.Tick, error) {
	ctx, cancel := context.WithTimeout(ctx, chartTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?id=%s&interval=%s",
		f.ChartURL, url.QueryEscape(strings.ToLower(symbol)), url.QueryEscape(interval))
	var payload struct {
		Result map[string]struct {
			Ticks []model.Tick `json:"ticks"`
		} `json:"result"`
	}
	if err := f.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	for _, chart := range payload.Result {
		return chart.Ticks, nil
	}
	return nil, fmt.Errorf("no chart data for symbol %s", symbol)
}

func (f *BBFinanceFetcher) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-rapidapi-host", f.APIHost)
	req.Header.Set("x-rapidapi-key", f.APIKey)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("bb-finance fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bb-finance: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bb-finance decode: %w", err)
	}
	return nil
}
