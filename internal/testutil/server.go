// Package testutil provides in-memory stores and a ready-made Server for
// tests that exercise services, middleware and routes without Postgres.
package testutil

import (
	"time"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/rs/zerolog"
)

// TestSecretKey signs the access tokens issued in tests.
const TestSecretKey = "test-secret-key-0123456789"

// NewTestConfig returns a valid config for tests.
func NewTestConfig() *config.Config {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
			GlobalRateLimit:    1000,
		},
		Redis: config.RedisConfig{Address: "localhost:6379"},
		Auth: config.AuthConfig{
			SecretKey:       TestSecretKey,
			TokenTTL:        time.Hour,
			LoginRateLimit:  3,
			LoginRateWindow: time.Minute,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewTestServer returns a Server with no database, Redis or job service.
func NewTestServer() *server.Server {
	logger := zerolog.Nop()

	return &server.Server{
		Config: NewTestConfig(),
		Logger: &logger,
	}
}
