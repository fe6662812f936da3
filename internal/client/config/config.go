package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/logging"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the movie client CLI.
//
// RequestsPerSecond of 0 disables client-side pacing. Zero token TTLs fall
// back to the state package defaults.
type Config struct {
	ServerBaseURL     string        `env:"SERVER_URL"`
	DatabasePath      string        `env:"DATABASE_PATH"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL   time.Duration `env:"REFRESH_TOKEN_TTL"`
	OAuthCallbackAddr string        `env:"OAUTH_CALLBACK_ADDR"`
	StoreBackend      string        `env:"STORE_BACKEND"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	SecretPath        string        `env:"SECRET_PATH"`
	LogLevel          string        `env:"LOG_LEVEL"`
	LogFormat         string        `env:"LOG_FORMAT"`
	DefaultLocale     string        `env:"LOCALE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api/v1"
	c.DatabasePath = "movie.db"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 0
	c.AccessTokenTTL = 30 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.OAuthCallbackAddr = "127.0.0.1:8765"
	c.StoreBackend = StoreSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.SecretPath = "movie.key"
	c.LogLevel = "info"
	c.LogFormat = string(logging.FormatText)
	c.DefaultLocale = string(models.DefaultLocale)
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	if c.ServerBaseURL == "" {
		return fmt.Errorf("server base url is required")
	}
	switch c.StoreBackend {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.RequestTimeout < 0 || c.RequestsPerSecond < 0 {
		return fmt.Errorf("timeout and rate must not be negative")
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := models.ParseLocale(c.DefaultLocale); err != nil {
		return err
	}
	return nil
}

// Locale is the parsed DefaultLocale; Validate has already checked it.
func (c *Config) Locale() models.Locale {
	l, _ := models.ParseLocale(c.DefaultLocale)
	return l
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones. Invalid settings panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
