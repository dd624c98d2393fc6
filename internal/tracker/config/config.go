package config

import (
	"time"

	"ticker-calendar/pkg/config"
)

// Provider holds the configuration for one external market data API.
type Provider struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
}

// Sweeper holds configuration for the staleness sweeper.
type Sweeper struct {
	CronSchedule       string        `mapstructure:"cron_schedule"`
	StalenessThreshold time.Duration `mapstructure:"staleness_threshold"`
	LockTTL            time.Duration `mapstructure:"lock_ttl"`
}

// Tracker holds tracker-specific tuning.
type Tracker struct {
	QuoteCacheTTL time.Duration `mapstructure:"quote_cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the tracker service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Finnhub      Provider        `mapstructure:"finnhub"`
	AlphaVantage Provider        `mapstructure:"alpha_vantage"`
	YahooFinance Provider        `mapstructure:"yahoo_finance"`
	Sweeper      Sweeper         `mapstructure:"sweeper"`
	Tracker      Tracker         `mapstructure:"tracker"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the tracker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
