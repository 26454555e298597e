// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Provide defaults for every optional setting.
//   - Map BRAINLOG_ env vars into a structured Go config.
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before we read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the BRAINLOG_ prefix. The prefix is removed,
	the key is lowercased and a double underscore marks nesting:

	  BRAINLOG_SERVER__PORT              -> server.port
	  BRAINLOG_DATABASE__MAX_OPEN_CONNS  -> database.max_open_conns

	Single underscores stay part of the key name.
*/

const (
	envPrefix = "BRAINLOG_"

	// ServiceName tags logs and New Relic transactions.
	ServiceName = "brainlog"
)

// Config is the root configuration object for the application.
//
// RateLimit and Observability are pointers because they are optional;
// defaults are injected when they are missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// BasePath prefixes every brainlog route, e.g. "/api".
	BasePath string `koanf:"base_path" validate:"omitempty,startswith=/"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN builds a postgres:// connection string. The password is URL-escaped
// so characters like ':' or '@' don't break the URL.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details. An empty Address
// disables Redis; the rate limiter then keeps its counters in memory.
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// Requests is how many requests a single client may make per Window.
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"min=1s"`
}

// DefaultRateLimitConfig allows 120 requests per minute per client.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:  true,
		Requests: 120,
		Window:   time.Minute,
	}
}

// defaults seeds koanf before the env provider overrides individual keys.
var defaults = map[string]interface{}{
	"primary.env":                                         "local",
	"server.port":                                         "8080",
	"server.read_timeout":                                 30,
	"server.write_timeout":                                30,
	"server.idle_timeout":                                 60,
	"server.cors_allowed_origins":                         []string{"*"},
	"database.port":                                       5432,
	"database.ssl_mode":                                   "disable",
	"database.max_open_conns":                             25,
	"database.max_idle_conns":                             25,
	"database.conn_max_lifetime":                          300,
	"database.conn_max_idle_time":                         300,
	"rate_limit.enabled":                                  true,
	"rate_limit.requests":                                 120,
	"rate_limit.window":                                   time.Minute,
	"observability.logging.level":                         "info",
	"observability.logging.format":                        "json",
	"observability.logging.slow_query_threshold":          100 * time.Millisecond,
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.health_checks.enabled":                 true,
	"observability.health_checks.interval":                30 * time.Second,
	"observability.health_checks.timeout":                 5 * time.Second,
	"observability.health_checks.checks":                  []string{"database", "redis"},
}

// envKey converts BRAINLOG_DATABASE__HOST into database.host.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// envValue maps an env var into a koanf key/value pair. Comma separated
// lists are split so they unmarshal into []string fields.
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	if k == "server.cors_allowed_origins" {
		origins := strings.Split(value, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return k, origins
	}
	return k, value
}

// LoadConfig loads defaults and environment variables, unmarshals them into
// Config, validates the result and fills in optional blocks.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.RateLimit == nil {
		mainConfig.RateLimit = DefaultRateLimitConfig()
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// logs and traces line up.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
