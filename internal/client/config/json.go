package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/movieclient/internal/flagx"
	"github.com/dmitrijs2005/movieclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-valued fields are left out of the overlay so a partial file only
// changes what it names.
type JsonConfig struct {
	ServerBaseURL     string         `json:"server_base_url"`
	DatabasePath      string         `json:"database_path"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	RequestsPerSecond *float64       `json:"requests_per_second"`
	AccessTokenTTL    timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL   timex.Duration `json:"refresh_token_ttl"`
	OAuthCallbackAddr string         `json:"oauth_callback_addr"`
	StoreBackend      string         `json:"store_backend"`
	RedisAddr         string         `json:"redis_addr"`
	SecretPath        string         `json:"secret_path"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	DefaultLocale     string         `json:"locale"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays cfg with values from the JSON file named by -c or
// -config. Without either flag nothing happens. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	setDuration(&cfg.AccessTokenTTL, jc.AccessTokenTTL)
	setDuration(&cfg.RefreshTokenTTL, jc.RefreshTokenTTL)
	setString(&cfg.OAuthCallbackAddr, jc.OAuthCallbackAddr)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.SecretPath, jc.SecretPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.DefaultLocale, jc.DefaultLocale)
}
