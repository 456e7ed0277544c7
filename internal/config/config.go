// Package config handles configuration loading for stockpicker.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API       APIConfig       `json:"api" mapstructure:"api" yaml:"api"`
	Data      DataConfig      `json:"data" mapstructure:"data" yaml:"data"`
	Analysis  AnalysisConfig  `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
	News      NewsConfig      `json:"news" mapstructure:"news" yaml:"news"`
	Scheduler SchedulerConfig `json:"scheduler" mapstructure:"scheduler" yaml:"scheduler"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host              string   `json:"host" mapstructure:"host" yaml:"host"`
	Port              int      `json:"port" mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	CORSOrigins       []string `json:"cors_origins" mapstructure:"cors_origins" yaml:"cors_origins"`
	RequestTimeoutSec int      `json:"request_timeout_sec" mapstructure:"request_timeout_sec" yaml:"request_timeout_sec" validate:"min=1"`
}

// DataConfig holds market data provider settings.
type DataConfig struct {
	YahooBaseURL      string  `json:"yahoo_base_url" mapstructure:"yahoo_base_url" yaml:"yahoo_base_url" validate:"required,url"`
	UserAgent         string  `json:"user_agent" mapstructure:"user_agent" yaml:"user_agent"`
	HTTPTimeoutSec    int     `json:"http_timeout_sec" mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"min=1"`
	RequestsPerSecond float64 `json:"requests_per_second" mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `json:"burst" mapstructure:"burst" yaml:"burst" validate:"min=1"`
	IndustryCacheFile string  `json:"industry_cache_file" mapstructure:"industry_cache_file" yaml:"industry_cache_file" validate:"required"`
	IndustryCacheDays int     `json:"industry_cache_days" mapstructure:"industry_cache_days" yaml:"industry_cache_days" validate:"min=1"`
}

// AnalysisConfig holds analysis engine settings.
type AnalysisConfig struct {
	CacheTTL          int `json:"cache_ttl" mapstructure:"cache_ttl" yaml:"cache_ttl"` // seconds
	ConcurrentFetches int `json:"concurrent_fetches" mapstructure:"concurrent_fetches" yaml:"concurrent_fetches" validate:"min=1,max=32"`
	RankHistoryYears  int `json:"rank_history_years" mapstructure:"rank_history_years" yaml:"rank_history_years" validate:"min=2"`
	ChartHistoryYears int `json:"chart_history_years" mapstructure:"chart_history_years" yaml:"chart_history_years" validate:"min=1"`
	ProgressEvery     int `json:"progress_every" mapstructure:"progress_every" yaml:"progress_every" validate:"min=1"`
}

// NewsConfig holds news feed settings.
type NewsConfig struct {
	GoogleNewsURL string   `json:"google_news_url" mapstructure:"google_news_url" yaml:"google_news_url" validate:"required,url"`
	Count         int      `json:"count" mapstructure:"count" yaml:"count" validate:"min=1,max=100"`
	MarketFeeds   []string `json:"market_feeds" mapstructure:"market_feeds" yaml:"market_feeds" validate:"dive,url"`
}

// SchedulerConfig holds cron specs for background maintenance in serve mode.
type SchedulerConfig struct {
	CacheEvictSpec      string `json:"cache_evict_spec" mapstructure:"cache_evict_spec" yaml:"cache_evict_spec"`
	TaxonomyRefreshSpec string `json:"taxonomy_refresh_spec" mapstructure:"taxonomy_refresh_spec" yaml:"taxonomy_refresh_spec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	File   string `json:"file" mapstructure:"file" yaml:"file"` // optional JSON log file
}

// RequestTimeout returns the API request timeout as a duration.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// HTTPTimeout returns the upstream HTTP timeout as a duration.
func (c DataConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// IndustryCacheMaxAge returns how long a saved taxonomy stays fresh.
func (c DataConfig) IndustryCacheMaxAge() time.Duration {
	return time.Duration(c.IndustryCacheDays) * 24 * time.Hour
}

// CacheTTLDuration returns the data cache TTL as a duration.
func (c AnalysisConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

const envPrefix = "STOCKPICKER"

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockpicker/config.yaml (home directory)
//  3. /etc/stockpicker/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKPICKER_<SECTION>_<KEY>, e.g., STOCKPICKER_API_PORT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockpicker"))
	v.AddConfigPath("/etc/stockpicker")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Data.IndustryCacheFile = expandHome(cfg.Data.IndustryCacheFile)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.request_timeout_sec", 120)

	// Data defaults
	v.SetDefault("data.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("data.user_agent", "Mozilla/5.0")
	v.SetDefault("data.http_timeout_sec", 15)
	v.SetDefault("data.requests_per_second", 4.0)
	v.SetDefault("data.burst", 4)
	v.SetDefault("data.industry_cache_file", "~/.stockpicker/industries_cache.json")
	v.SetDefault("data.industry_cache_days", 7)

	// Analysis defaults
	v.SetDefault("analysis.cache_ttl", 300) // 5 minutes
	v.SetDefault("analysis.concurrent_fetches", 5)
	v.SetDefault("analysis.rank_history_years", 3)
	v.SetDefault("analysis.chart_history_years", 4)
	v.SetDefault("analysis.progress_every", 5)

	// News defaults
	v.SetDefault("news.google_news_url", "https://news.google.com/rss/search")
	v.SetDefault("news.count", 10)
	v.SetDefault("news.market_feeds", []string{
		"https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms",
		"https://www.moneycontrol.com/rss/marketreports.xml",
		"https://www.livemint.com/rss/markets",
	})

	// Scheduler defaults
	v.SetDefault("scheduler.cache_evict_spec", "@every 10m")
	v.SetDefault("scheduler.taxonomy_refresh_spec", "0 6 * * 1") // Mondays 06:00

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
