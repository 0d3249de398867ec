package middleware

import (
	"github.com/deppfellow/storefront/internal/logger"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
	ActorKey    = "actor"
	LoggerKey   = "logger"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext attaches a logger carrying request id, method, path, ip
// and trace ids. It is stored in the Echo context and, through
// zerolog.Logger.WithContext, in the request context so services can use
// zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if actor, ok := GetActor(c); ok {
				contextLogger = withActor(contextLogger, actor)
			}

			setLogger(c, contextLogger)

			return next(c)
		}
	}
}

func withActor(l zerolog.Logger, actor model.Actor) zerolog.Logger {
	return l.With().
		Str("user_id", actor.UserID.String()).
		Str("user_role", actor.Role.String()).
		Logger()
}

func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// setActor records the authenticated caller and adds it to the request
// logger, since route-level auth runs after EnhanceContext.
func setActor(c echo.Context, actor model.Actor) {
	c.Set(ActorKey, actor)
	c.Set(UserIDKey, actor.UserID.String())
	c.Set(UserRoleKey, actor.Role.String())

	setLogger(c, withActor(*GetLogger(c), actor))
}

// GetActor returns the caller set by RequireAuth.
func GetActor(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(ActorKey).(model.Actor)
	return actor, ok
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger returns the request-scoped logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
