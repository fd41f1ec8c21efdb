package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"StockScope/internal/collector"
	"StockScope/internal/config"
	"StockScope/internal/digest"
	"StockScope/internal/embedding"
	"StockScope/internal/tools"
	"StockScope/internal/vector"
)

func main() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	cfgPath := flag.String("config", defaultConfig, "path to the YAML config file")
	toolset := flag.String("toolset", "all", "tool set to expose: price, vector, or all")
	flag.Parse()

	// Stdout carries the MCP protocol; everything we log goes to stderr.
	logrus.SetOutput(os.Stderr)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	s := server.NewMCPServer("StockScope", "1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
	)

	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	if *toolset == "price" || *toolset == "all" {
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("config validation: %v", err)
		}
		fetcher := collector.NewBBFinanceFetcher(
			cfg.DataSource.QuoteURL, cfg.DataSource.ChartURL,
			cfg.DataSource.APIHost, cfg.DataSource.APIKey, cfg.Proxy)
		logrus.Infof("data source: %s", fetcher.Name())

		priceTools := tools.NewPriceTools(fetcher)
		priceTools.Register(s)

		d, err := digest.New(cfg.Digest.Cron, func(ctx context.Context) (string, error) {
			return priceTools.SummaryText(ctx, cfg.Digest.Symbols)
		})
		if err != nil {
			logrus.Fatalf("init digest: %v", err)
		}
		d.Start()
		cleanup = append(cleanup, d.Stop)

		s.AddResource(mcp.NewResource("share://price-data", "Share Price Data",
			mcp.WithResourceDescription("How to query share price data through this server"),
			mcp.WithMIMEType("text/plain"),
		), func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text: "Real-time stock price data access.\n" +
					"Use the get_share_price tool with a symbol like 'aapl:us' for a current quote,\n" +
					"get_price_chart_analysis for trend and key levels over an interval\n" +
					"(d1, d3, ytd, m1, m3, m6, y1, y5), analyze_stock_volatility for swing\n" +
					"statistics, and compare_stock_performance or compare_stocks for\n" +
					"multi-symbol views. get_market_summary reports gainers and decliners\n" +
					"for a watchlist.",
			}}, nil
		})

		s.AddResource(mcp.NewResource("market://summary", "Market Summary",
			mcp.WithResourceDescription("Periodically refreshed market summary for the configured watchlist"),
			mcp.WithMIMEType("text/plain"),
		), func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			text, updatedAt := d.Latest()
			if text == "" {
				return nil, fmt.Errorf("market summary not available yet")
			}
			return []mcp.ResourceContents{mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     fmt.Sprintf("%s\nLast updated: %s\n", text, updatedAt.Format("2006-01-02 15:04:05")),
			}}, nil
		})
	}

	if *toolset == "vector" || *toolset == "all" {
		var store vector.Store
		if cfg.Database.SQLitePath != "" {
			ss, err := vector.NewSQLiteStore(cfg.Database.SQLitePath)
			if err != nil {
				logrus.Warnf("init sqlite store failed, using in-memory store: %v", err)
				store = vector.NewMemoryStore()
			} else {
				store = ss
				cleanup = append(cleanup, func() {
					if err := ss.Close(); err != nil {
						logrus.Errorf("close vector store: %v", err)
					}
				})
			}
		} else {
			store = vector.NewMemoryStore()
		}

		var embedder embedding.Embedder
		if cfg.Embedding.BaseURL != "" {
			embedder = embedding.NewHTTPEmbedder(
				cfg.Embedding.BaseURL, cfg.Embedding.APIKey,
				cfg.Embedding.Model, cfg.Embedding.Dimension)
		} else {
			logrus.Warn("no embedding service configured, upsert and search will be unavailable")
		}

		vectorTools := tools.NewVectorTools(store, embedder,
			cfg.Embedding.Dimension, vector.Metric(cfg.Vector.DefaultMetric))
		vectorTools.Register(s)
	}

	logrus.Infof("StockScope MCP server starting (toolset=%s)", *toolset)
	if err := server.ServeStdio(s); err != nil {
		logrus.Errorf("serve: %v", err)
	}
}
