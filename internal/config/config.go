// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional values (token lifetime, rate limits,
//     observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every variable before it is mapped onto Config.
//
// Keys use "." for nesting, e.g. STOREFRONT_SERVER.PORT -> server.port.
const EnvPrefix = "STOREFRONT_"

const (
	DefaultTokenTTL           = 12 * time.Hour
	DefaultTokenIssuer        = "storefront"
	DefaultLoginRateLimit     = 10
	DefaultLoginRateWindow    = time.Minute
	DefaultGlobalRateLimitRPS = 20
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected by LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// GlobalRateLimit is the per-IP requests-per-second budget enforced by
	// the in-memory limiter in front of every route.
	GlobalRateLimit int `koanf:"global_rate_limit" validate:"gte=0"`
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

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the signing secret and the token/login policy.
//
// SecretKey signs every access token (HS256). Rotating it logs everybody out.
type AuthConfig struct {
	SecretKey string        `koanf:"secret_key" validate:"required,min=16"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
	Issuer    string        `koanf:"issuer"`

	// LoginRateLimit is the number of login attempts one IP may make per
	// LoginRateWindow. Zero falls back to the default.
	LoginRateLimit  int           `koanf:"login_rate_limit" validate:"gte=0"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// IntegrationConfig holds credentials for third-party services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it and applies defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.ApplyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// ApplyDefaults fills every optional value that was left empty.
//
// Observability service name and environment are always overridden so that
// logs and traces use consistent naming regardless of what was configured.
func (c *Config) ApplyDefaults() {
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = DefaultTokenIssuer
	}
	if c.Auth.LoginRateLimit == 0 {
		c.Auth.LoginRateLimit = DefaultLoginRateLimit
	}
	if c.Auth.LoginRateWindow <= 0 {
		c.Auth.LoginRateWindow = DefaultLoginRateWindow
	}
	if c.Server.GlobalRateLimit == 0 {
		c.Server.GlobalRateLimit = DefaultGlobalRateLimitRPS
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Storefront <onboarding@resend.dev>"
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = "storefront"
	c.Observability.Environment = c.Primary.Env
}
