package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// maxPerPage is the CoinGecko /coins/markets page-size ceiling.
const maxPerPage = 250

// Config is the complete coinpulse configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Movers MoversConfig `yaml:"movers"`
	Output OutputConfig `yaml:"output"`
	Report ReportConfig `yaml:"report"`
}

// APIConfig configures the single market-data request.
type APIConfig struct {
	BaseURL          string `yaml:"base_url"`
	VsCurrency       string `yaml:"vs_currency"`
	PerPage          int    `yaml:"per_page"`           // 1..250
	Page             int    `yaml:"page"`               // >= 1
	TimeoutSecs      int    `yaml:"timeout_secs"`       // HTTP client timeout
	GateIntervalSecs int    `yaml:"gate_interval_secs"` // fixed pre-call delay
	APIKey           string `yaml:"-"`                  // env only, never from file
}

// MoversConfig configures gainer/loser extraction.
type MoversConfig struct {
	TopN int `yaml:"top_n"`
}

// OutputConfig configures artifact persistence.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	DateStamp bool   `yaml:"date_stamp"` // embed DD-MM-YYYY in file names
}

// ReportConfig configures the console report.
type ReportConfig struct {
	Leaders int `yaml:"leaders"` // rows in the market-cap leaders table
}

// Default returns the built-in configuration, matching a plain
// `coinpulse snapshot` run with no config file.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:          "https://api.coingecko.com/api/v3",
			VsCurrency:       "usd",
			PerPage:          250,
			Page:             1,
			TimeoutSecs:      30,
			GateIntervalSecs: 6,
		},
		Movers: MoversConfig{TopN: 10},
		Output: OutputConfig{Dir: "data", DateStamp: true},
		Report: ReportConfig{Leaders: 10},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is consistent and within upstream
// limits.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.VsCurrency == "" {
		return fmt.Errorf("api.vs_currency must not be empty")
	}
	if c.API.PerPage < 1 || c.API.PerPage > maxPerPage {
		return fmt.Errorf("api.per_page must be between 1 and %d, got %d", maxPerPage, c.API.PerPage)
	}
	if c.API.Page < 1 {
		return fmt.Errorf("api.page must be >= 1, got %d", c.API.Page)
	}
	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs must be positive, got %d", c.API.TimeoutSecs)
	}
	if c.API.GateIntervalSecs < 0 {
		return fmt.Errorf("api.gate_interval_secs must not be negative, got %d", c.API.GateIntervalSecs)
	}
	if c.Movers.TopN < 1 {
		return fmt.Errorf("movers.top_n must be >= 1, got %d", c.Movers.TopN)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if c.Report.Leaders < 1 {
		return fmt.Errorf("report.leaders must be >= 1, got %d", c.Report.Leaders)
	}
	return nil
}

// Timeout returns the HTTP client timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GateInterval returns the fixed pre-call delay as a duration.
func (c *APIConfig) GateInterval() time.Duration {
	return time.Duration(c.GateIntervalSecs) * time.Second
}
