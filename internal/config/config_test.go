package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"STOREFRONT_PRIMARY.ENV":                   "local",
		"STOREFRONT_SERVER.PORT":                   "8080",
		"STOREFRONT_SERVER.READ_TIMEOUT":           "30",
		"STOREFRONT_SERVER.WRITE_TIMEOUT":          "30",
		"STOREFRONT_SERVER.IDLE_TIMEOUT":           "60",
		"STOREFRONT_SERVER.CORS_ALLOWED_ORIGINS":   "http://localhost:3000,http://localhost:5173",
		"STOREFRONT_DATABASE.HOST":                 "localhost",
		"STOREFRONT_DATABASE.PORT":                 "5432",
		"STOREFRONT_DATABASE.USER":                 "postgres",
		"STOREFRONT_DATABASE.PASSWORD":             "postgres",
		"STOREFRONT_DATABASE.NAME":                 "storefront",
		"STOREFRONT_DATABASE.SSL_MODE":             "disable",
		"STOREFRONT_DATABASE.MAX_OPEN_CONNS":       "25",
		"STOREFRONT_DATABASE.MAX_IDLE_CONNS":       "25",
		"STOREFRONT_DATABASE.CONN_MAX_LIFETIME":    "300",
		"STOREFRONT_DATABASE.CONN_MAX_IDLE_TIME":   "300",
		"STOREFRONT_REDIS.ADDRESS":                 "localhost:6379",
		"STOREFRONT_AUTH.SECRET_KEY":               "a-very-long-test-secret",
		"STOREFRONT_AUTH.TOKEN_TTL":                "2h",
		"STOREFRONT_INTEGRATION.RESEND_API_KEY":    "re_test",
		"STOREFRONT_OBSERVABILITY.LOGGING.LEVEL":   "debug",
		"STOREFRONT_OBSERVABILITY.LOGGING.FORMAT":  "console",
		"STOREFRONT_OBSERVABILITY.SERVICE_NAME":    "ignored",
		"STOREFRONT_OBSERVABILITY.ENVIRONMENT":     "ignored",
		"STOREFRONT_OBSERVABILITY.HEALTH_CHECKS.INTERVAL": "30s",
		"STOREFRONT_OBSERVABILITY.HEALTH_CHECKS.TIMEOUT":  "5s",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultLoginRateLimit, cfg.Auth.LoginRateLimit)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "storefront", cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STOREFRONT_AUTH.SECRET_KEY", "short")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Primary: Primary{Env: "production"}}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultTokenIssuer, cfg.Auth.Issuer)
	assert.Equal(t, DefaultLoginRateWindow, cfg.Auth.LoginRateWindow)
	assert.Equal(t, DefaultGlobalRateLimitRPS, cfg.Server.GlobalRateLimit)
	require.NotNil(t, cfg.Observability)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *ObservabilityConfig) {}},
		{
			name:    "unknown level",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "negative slow query threshold",
			mutate:  func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second },
			wantErr: "slow_query_threshold",
		},
		{
			name:    "missing service name",
			mutate:  func(c *ObservabilityConfig) { c.ServiceName = "" },
			wantErr: "service_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("database"))
	assert.False(t, cfg.HealthCheckEnabled("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
