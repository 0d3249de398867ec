package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	MsgTooManyRequests    = "Too many requests, please try again later"
	MsgUnidentifiedClient = "Unable to identify client"
)

// Counter is the Redis subset the fixed-window limiter needs.
// *redis.Client satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type RateLimitMiddleware struct {
	server  *server.Server
	counter Counter
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	r := &RateLimitMiddleware{server: s}
	if s.Redis != nil {
		r.counter = s.Redis
	}
	return r
}

// RecordRateLimitHit reports a rejected request to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

func (r *RateLimitMiddleware) reject(c echo.Context) error {
	r.RecordRateLimitHit(c.Path())
	GetLogger(c).Warn().
		Str("endpoint", c.Path()).
		Msg("rate limit exceeded")
	return errs.NewTooManyRequestsError(MsgTooManyRequests)
}

// identifierError answers requests whose client address cannot be
// determined.
func (r *RateLimitMiddleware) identifierError(c echo.Context, err error) error {
	GetLogger(c).Warn().Err(err).Msg("rate limiter could not identify client")
	return errs.NewBadRequestError(MsgUnidentifiedClient, false, errs.Code("CLIENT_UNIDENTIFIED"), nil, nil)
}

// Global is a per-IP token bucket kept in memory, applied to every route.
func (r *RateLimitMiddleware) Global() echo.MiddlewareFunc {
	limit := r.server.Config.Server.GlobalRateLimit

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     limit * 2,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: r.identifierError,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return r.reject(c)
		},
	})
}

// Login limits attempts per client IP with a fixed window counter in Redis,
// so the budget is shared by every instance. Without Redis, or when Redis
// fails, requests pass.
func (r *RateLimitMiddleware) Login() echo.MiddlewareFunc {
	limit := r.server.Config.Auth.LoginRateLimit
	window := r.server.Config.Auth.LoginRateWindow

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.counter == nil || limit <= 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			bucket := time.Now().UnixNano() / int64(window)
			key := fmt.Sprintf("ratelimit:login:%s:%d", c.RealIP(), bucket)

			count, err := r.counter.Incr(ctx, key).Result()
			if err != nil {
				GetLogger(c).Warn().Err(err).Msg("login rate limiter unavailable")
				return next(c)
			}
			if count == 1 {
				if err := r.counter.Expire(ctx, key, window).Err(); err != nil {
					GetLogger(c).Warn().Err(err).Msg("failed to set rate limit expiry")
				}
			}

			remaining := max(int64(limit)-count, 0)
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return r.reject(c)
			}

			return next(c)
		}
	}
}
