// Package config defines the top-level configuration for the Ronin ecosystem
// tracker and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by RONIN_* environment variables.
type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Cache     CacheConfig     `toml:"cache"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Refresh   RefreshConfig   `toml:"refresh"`
	Redis     RedisConfig     `toml:"redis"`
	Postgres  PostgresConfig  `toml:"postgres"`
	S3        S3Config        `toml:"s3"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// ProvidersConfig holds external data provider credentials and retry
// parameters. Both API keys are optional: a missing key degrades every fetch
// for that provider to its deterministic fallback path.
type ProvidersConfig struct {
	CoinGeckoAPIKey  string        `toml:"coingecko_api_key"`
	CoinGeckoBaseURL string        `toml:"coingecko_base_url"`
	DuneAPIKey       string        `toml:"dune_api_key"`
	DuneBaseURL      string        `toml:"dune_base_url"`
	MaxRetries       int           `toml:"max_retries"`
	RetryBaseDelay   time.Duration `toml:"retry_base_delay"`
	CoinGeckoDelay   time.Duration `toml:"coingecko_delay"`
	DuneDelay        time.Duration `toml:"dune_delay"`
	RequestTimeout   time.Duration `toml:"request_timeout"`
}

// HasCoinGeckoKey reports whether a plausible CoinGecko key is configured.
// Keys of 10 characters or fewer are treated as absent, as the original
// dashboard did.
func (p ProvidersConfig) HasCoinGeckoKey() bool {
	return len(strings.TrimSpace(p.CoinGeckoAPIKey)) > 10
}

// HasDuneKey reports whether a plausible Dune key is configured.
func (p ProvidersConfig) HasDuneKey() bool {
	return len(strings.TrimSpace(p.DuneAPIKey)) > 10
}

// CacheConfig controls the dataset cache.
type CacheConfig struct {
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Backend string        `toml:"backend"` // "file", "redis", or "memory"
}

// AnalyticsConfig holds the tunable analytics thresholds. Scoring band
// breakpoints live in the analytics package as exported constants; only the
// values the original dashboard exposed as settings appear here.
type AnalyticsConfig struct {
	WhaleThresholdUSD float64 `toml:"whale_threshold_usd"`
}

// RefreshConfig controls the periodic dataset refresh job.
type RefreshConfig struct {
	Interval time.Duration `toml:"interval"`
	Archive  bool          `toml:"archive"`
}

// RedisConfig holds connection parameters for the optional Redis cache
// backend.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds connection parameters for the optional score-history
// store. When DSN and Host are both empty, score history is disabled.
type PostgresConfig struct {
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
	MaxConns int    `toml:"pool_max_conns"`
	MinConns int    `toml:"pool_min_conns"`
}

// S3Config holds object-storage parameters for the optional dataset
// archiver. Compatible with AWS S3 and S3-compatible providers.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	PlainHTTP      bool   `toml:"plain_http"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds the HTTP API parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	RateLimit   int      `toml:"rate_limit"` // requests per minute per client, 0 disables
	APIKey      string   `toml:"api_key"`    // if empty, authentication is disabled
}

// NotifyConfig holds alerting channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns the built-in configuration, matching the behavior of the
// original dashboard: 24h cache TTL, 3 retries with a 5s base delay, and
// provider courtesy delays of 1.2s (CoinGecko) and 2s (Dune).
func Defaults() Config {
	return Config{
		Providers: ProvidersConfig{
			CoinGeckoBaseURL: "https://pro-api.coingecko.com/api/v3",
			DuneBaseURL:      "https://api.dune.com/api/v1",
			MaxRetries:       3,
			RetryBaseDelay:   5 * time.Second,
			CoinGeckoDelay:   1200 * time.Millisecond,
			DuneDelay:        2 * time.Second,
			RequestTimeout:   30 * time.Second,
		},
		Cache: CacheConfig{
			Dir:     "data",
			TTL:     24 * time.Hour,
			Backend: "file",
		},
		Analytics: AnalyticsConfig{
			WhaleThresholdUSD: 50_000,
		},
		Refresh: RefreshConfig{
			Interval: 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Postgres: PostgresConfig{
			Port:    5432,
			SSLMode: "require",
		},
		Server: ServerConfig{
			Port:      8080,
			RateLimit: 120,
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// Validate checks the configuration for values that would make the tracker
// unable to start. Missing provider keys are deliberately NOT errors.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "serve", "refresh", "scores", "full":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("config: unsupported cache backend %q", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Providers.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if strings.ToLower(c.Cache.Backend) == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("config: cache backend is redis but redis.addr is empty")
	}
	if c.Refresh.Archive && c.S3.Bucket == "" {
		return fmt.Errorf("config: refresh.archive enabled but s3.bucket is empty")
	}
	return nil
}

// HasCoinGeckoKey reports whether a plausible CoinGecko key is configured.
func (c *Config) HasCoinGeckoKey() bool {
	return c.Providers.HasCoinGeckoKey()
}

// HasDuneKey reports whether a plausible Dune key is configured.
func (c *Config) HasDuneKey() bool {
	return c.Providers.HasDuneKey()
}

// HasPostgres reports whether the score-history store should be wired.
func (c *Config) HasPostgres() bool {
	return c.Postgres.DSN != "" || c.Postgres.Host != ""
}
