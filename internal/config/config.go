package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable the fetchers and the orchestrator need.
// Provider limits (retry ceilings, pacing delays, chunk sizes) live here
// instead of package constants so tests can override them per component.
// Delays are whole seconds, matching the provider's published quotas.
type Config struct {
	Timezone string `yaml:"timezone"`

	Statistics struct {
		BaseURL            string `yaml:"base_url"`
		MaxRetries         int    `yaml:"max_retries"`
		RetryDelaySeconds  int    `yaml:"retry_delay_seconds"`
		PagePacingSeconds  int    `yaml:"page_pacing_seconds"`
		ChunkDays          int    `yaml:"chunk_days"`
		PageLimit          int    `yaml:"page_limit"`
		HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	} `yaml:"statistics"`

	Analytics struct {
		StorageBaseURL     string `yaml:"storage_base_url"`
		AcceptanceBaseURL  string `yaml:"acceptance_base_url"`
		ChunkDays          int    `yaml:"chunk_days"`
		ChunkPacingSeconds int    `yaml:"chunk_pacing_seconds"`
		PollIntervalSecs   int    `yaml:"poll_interval_seconds"`
		PollCeilingSecs    int    `yaml:"poll_ceiling_seconds"`
		HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	} `yaml:"analytics"`

	Advert struct {
		BaseURL            string `yaml:"base_url"`
		MaxRetries         int    `yaml:"max_retries"`
		RetrySeedSeconds   int    `yaml:"retry_seed_seconds"`
		MetaBatchSize      int    `yaml:"meta_batch_size"`
		MetaPacingSeconds  int    `yaml:"meta_pacing_seconds"`
		StatsBatchSize     int    `yaml:"stats_batch_size"`
		StatsPacingSeconds int    `yaml:"stats_pacing_seconds"`
		ChunkDays          int    `yaml:"chunk_days"`
		HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	} `yaml:"advert"`

	Common struct {
		BaseURL            string `yaml:"base_url"`
		HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	} `yaml:"common"`

	UserDB struct {
		Path string `yaml:"path"`
	} `yaml:"user_db"`
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}

	s := &c.Statistics
	if s.BaseURL == "" {
		s.BaseURL = "https://statistics-api.wildberries.ru"
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
	if s.RetryDelaySeconds == 0 {
		s.RetryDelaySeconds = 60
	}
	if s.PagePacingSeconds == 0 {
		s.PagePacingSeconds = 1
	}
	if s.ChunkDays == 0 {
		s.ChunkDays = 7
	}
	if s.PageLimit == 0 {
		s.PageLimit = 100000
	}
	if s.HTTPTimeoutSeconds == 0 {
		s.HTTPTimeoutSeconds = 60
	}

	a := &c.Analytics
	if a.StorageBaseURL == "" {
		a.StorageBaseURL = "https://seller-analytics-api.wildberries.ru/api/v1/paid_storage"
	}
	if a.AcceptanceBaseURL == "" {
		a.AcceptanceBaseURL = "https://seller-analytics-api.wildberries.ru/api/v1/acceptance_report"
	}
	if a.ChunkDays == 0 {
		a.ChunkDays = 8
	}
	if a.ChunkPacingSeconds == 0 {
		a.ChunkPacingSeconds = 61
	}
	if a.PollIntervalSecs == 0 {
		a.PollIntervalSecs = 5
	}
	if a.PollCeilingSecs == 0 {
		a.PollCeilingSecs = 300
	}
	if a.HTTPTimeoutSeconds == 0 {
		a.HTTPTimeoutSeconds = 30
	}

	ad := &c.Advert
	if ad.BaseURL == "" {
		ad.BaseURL = "https://advert-api.wildberries.ru"
	}
	if ad.MaxRetries == 0 {
		ad.MaxRetries = 3
	}
	if ad.RetrySeedSeconds == 0 {
		ad.RetrySeedSeconds = 61
	}
	if ad.MetaBatchSize == 0 {
		ad.MetaBatchSize = 50
	}
	if ad.MetaPacingSeconds == 0 {
		ad.MetaPacingSeconds = 1
	}
	if ad.StatsBatchSize == 0 {
		ad.StatsBatchSize = 100
	}
	if ad.StatsPacingSeconds == 0 {
		ad.StatsPacingSeconds = 21
	}
	if ad.ChunkDays == 0 {
		ad.ChunkDays = 30
	}
	if ad.HTTPTimeoutSeconds == 0 {
		ad.HTTPTimeoutSeconds = 120
	}

	if c.Common.BaseURL == "" {
		c.Common.BaseURL = "https://common-api.wildberries.ru"
	}
	if c.Common.HTTPTimeoutSeconds == 0 {
		c.Common.HTTPTimeoutSeconds = 10
	}

	if c.UserDB.Path == "" {
		c.UserDB.Path = "users.db"
	}
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.Statistics.ChunkDays < 1 {
		return fmt.Errorf("statistics.chunk_days must be positive, got %d", c.Statistics.ChunkDays)
	}
	if c.Analytics.ChunkDays < 1 {
		return fmt.Errorf("analytics.chunk_days must be positive, got %d", c.Analytics.ChunkDays)
	}
	if c.Advert.ChunkDays < 1 {
		return fmt.Errorf("advert.chunk_days must be positive, got %d", c.Advert.ChunkDays)
	}
	if c.Advert.MetaBatchSize < 1 || c.Advert.MetaBatchSize > 50 {
		return fmt.Errorf("advert.meta_batch_size must be within 1..50, got %d", c.Advert.MetaBatchSize)
	}
	if c.Advert.StatsBatchSize < 1 || c.Advert.StatsBatchSize > 100 {
		return fmt.Errorf("advert.stats_batch_size must be within 1..100, got %d", c.Advert.StatsBatchSize)
	}
	if c.Analytics.PollIntervalSecs <= 0 || c.Analytics.PollCeilingSecs <= 0 {
		return fmt.Errorf("analytics poll interval and ceiling must be positive")
	}
	return nil
}

// Location resolves the configured civil timezone. Validate guarantees it
// loads for any config returned by Load or Default.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Default returns a config with all provider defaults applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load reads a yaml config file, fills defaults and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
