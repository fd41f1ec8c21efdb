package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		QuoteURL string `yaml:"quote_url"`
		ChartURL string `yaml:"chart_url"`
		APIHost  string `yaml:"api_host"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Embedding struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`
		Dimension int    `yaml:"dimension"`
	} `yaml:"embedding"`
	Vector struct {
		DefaultIndex  string `yaml:"default_index"`
		DefaultMetric string `yaml:"default_metric"`
	} `yaml:"vector"`
	Digest struct {
		Cron    string   `yaml:"cron"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"digest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	// .env is optional; real env vars take precedence either way.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BB_FINANCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BB_FINANCE_QUOTE_URL"); v != "" {
		cfg.DataSource.QuoteURL = v
	}
	if v := os.Getenv("BB_FINANCE_CHART_URL"); v != "" {
		cfg.DataSource.ChartURL = v
	}
	if v := os.Getenv("BB_FINANCE_API_HOST"); v != "" {
		cfg.DataSource.APIHost = v
	}
	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Digest.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.QuoteURL == "" {
		cfg.DataSource.QuoteURL = "https://bb-finance.p.rapidapi.com/market/get-compact"
	}
	if cfg.DataSource.ChartURL == "" {
		cfg.DataSource.ChartURL = "https://bb-finance.p.rapidapi.com/market/get-price-chart"
	}
	if cfg.DataSource.APIHost == "" {
		cfg.DataSource.APIHost = "bb-finance.p.rapidapi.com"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 384
	}
	if cfg.Vector.DefaultIndex == "" {
		cfg.Vector.DefaultIndex = "mcp-vectors"
	}
	if cfg.Vector.DefaultMetric == "" {
		cfg.Vector.DefaultMetric = "cosine"
	}
	if cfg.Digest.Cron == "" {
		// Hourly on the hour
		cfg.Digest.Cron = "0 0 * * * *"
	}
	if len(cfg.Digest.Symbols) == 0 {
		cfg.Digest.Symbols = []string{"aapl:us", "tsla:us", "msft:us", "googl:us"}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscope.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required")
	}
	if c.DataSource.QuoteURL == "" {
		return fmt.Errorf("data_source.quote_url is required")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive")
	}
	return nil
}
