package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler reports whether the service and its dependencies respond.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	name string
	// required checks turn the overall status unhealthy when they fail.
	required bool
	ping     func(ctx context.Context) error
}

// CheckResult is one dependency in the /status body.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// checks lists the configured dependency probes. The database is required;
// Redis only degrades rate limiting and email, so its failure is reported
// without failing the check.
func (h *HealthHandler) checks() []healthCheck {
	var checks []healthCheck
	obs := h.server.Config.Observability

	if h.server.DB != nil && obs.HealthCheckEnabled("database") {
		checks = append(checks, healthCheck{
			name:     "database",
			required: true,
			ping:     h.server.DB.Pool.Ping,
		})
	}

	if h.server.Redis != nil && obs.HealthCheckEnabled("redis") {
		checks = append(checks, healthCheck{
			name: "redis",
			ping: func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			},
		})
	}

	return checks
}

// CheckHealth returns 200 when every required dependency answers, 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	for _, check := range h.checks() {
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)

		if err != nil {
			response.Checks[check.name] = CheckResult{
				Status:       statusUnhealthy,
				ResponseTime: elapsed.String(),
				Error:        err.Error(),
			}
			if check.required {
				response.Status = statusUnhealthy
			}

			logger.Error().
				Err(err).
				Str("check", check.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
					"check_type":       check.name,
					"operation":        "health_check",
					"response_time_ms": elapsed.Milliseconds(),
					"error_message":    err.Error(),
				})
			}
			continue
		}

		response.Checks[check.name] = CheckResult{
			Status:       statusHealthy,
			ResponseTime: elapsed.String(),
		}
	}

	if response.Status != statusHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
