package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies RONIN_* environment variable overrides, and
// returns the final Config. A missing config file is not an error: the
// tracker runs entirely on defaults plus environment variables, which is the
// normal deployment shape when only the two provider keys are injected.
// The returned Config has NOT been validated; call Config.Validate after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known RONIN_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file. The two provider-key variables also accept the names the original
// dashboard used, so existing deployments keep working.
func applyEnvOverrides(cfg *Config) {
	// Providers
	setStr(&cfg.Providers.CoinGeckoAPIKey, "RONIN_COINGECKO_API_KEY")
	setStr(&cfg.Providers.CoinGeckoAPIKey, "COINGECKO_PRO_API_KEY") // legacy alias
	setStr(&cfg.Providers.DuneAPIKey, "RONIN_DUNE_API_KEY")
	setStr(&cfg.Providers.DuneAPIKey, "DEFI_JOSH_DUNE_QUERY_API_KEY") // legacy alias
	setStr(&cfg.Providers.CoinGeckoBaseURL, "RONIN_COINGECKO_BASE_URL")
	setStr(&cfg.Providers.DuneBaseURL, "RONIN_DUNE_BASE_URL")
	setInt(&cfg.Providers.MaxRetries, "RONIN_PROVIDER_MAX_RETRIES")
	setDur(&cfg.Providers.RetryBaseDelay, "RONIN_PROVIDER_RETRY_BASE_DELAY")

	// Cache
	setStr(&cfg.Cache.Dir, "RONIN_CACHE_DIR")
	setDur(&cfg.Cache.TTL, "RONIN_CACHE_TTL")
	setStr(&cfg.Cache.Backend, "RONIN_CACHE_BACKEND")

	// Analytics
	setFloat(&cfg.Analytics.WhaleThresholdUSD, "RONIN_WHALE_THRESHOLD_USD")

	// Refresh
	setDur(&cfg.Refresh.Interval, "RONIN_REFRESH_INTERVAL")
	setBool(&cfg.Refresh.Archive, "RONIN_REFRESH_ARCHIVE")

	// Redis
	setStr(&cfg.Redis.Addr, "RONIN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "RONIN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "RONIN_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "RONIN_REDIS_TLS")

	// Postgres
	setStr(&cfg.Postgres.DSN, "RONIN_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "RONIN_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "RONIN_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "RONIN_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "RONIN_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "RONIN_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "RONIN_POSTGRES_SSL_MODE")

	// S3
	setStr(&cfg.S3.Endpoint, "RONIN_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "RONIN_S3_REGION")
	setStr(&cfg.S3.Bucket, "RONIN_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "RONIN_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "RONIN_S3_SECRET_KEY")
	setBool(&cfg.S3.PlainHTTP, "RONIN_S3_PLAIN_HTTP")
	setBool(&cfg.S3.ForcePathStyle, "RONIN_S3_FORCE_PATH_STYLE")

	// Server
	setInt(&cfg.Server.Port, "RONIN_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "RONIN_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimit, "RONIN_SERVER_RATE_LIMIT")
	setStr(&cfg.Server.APIKey, "RONIN_SERVER_API_KEY")

	// Notify
	setStr(&cfg.Notify.TelegramToken, "RONIN_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "RONIN_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "RONIN_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "RONIN_NOTIFY_EVENTS")

	// Top-level
	setStr(&cfg.Mode, "RONIN_MODE")
	setStr(&cfg.LogLevel, "RONIN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDur(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}
