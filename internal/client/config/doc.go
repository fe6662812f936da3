// Package config loads runtime configuration for the movie client CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with MOVIE_, plus a .env file in the
//     working directory when present (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the movie API
//	-d string   path to the local SQLite database
//	-t int      per-request timeout (seconds)
//	-o string   host:port of the OAuth callback listener
//	-s string   local store backend: sqlite or redis
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000/api/v1",
//	  "request_timeout": "15s",
//	  "access_token_ttl": "30m",
//	  "store_backend": "sqlite"
//	}
package config
