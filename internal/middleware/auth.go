package middleware

import (
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/lib/token"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	MsgNoToken      = "Not authorized, no token"
	MsgTokenFailed  = "Not authorized, token failed"
	MsgAccessDenied = "Access denied"
)

type AuthMiddleware struct {
	server *server.Server
	tokens *token.Manager
}

func NewAuthMiddleware(s *server.Server, tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		tokens: tokens,
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// RequireAuth verifies the bearer access token and records the caller.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errs.NewUnauthorizedError(MsgNoToken, true)
		}

		claims, err := auth.tokens.Parse(raw)
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "RequireAuth").
				Msg("access token rejected")
			return errs.NewUnauthorizedError(MsgTokenFailed, true)
		}

		actor := claims.Actor()
		setActor(c, actor)

		if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
			txn.AddAttribute("user.id", actor.UserID.String())
			txn.AddAttribute("user.role", actor.Role.String())
		}

		GetLogger(c).Debug().
			Str("function", "RequireAuth").
			Msg("user authenticated")

		return next(c)
	}
}

// RequireRole admits only actors holding one of roles. It must run after
// RequireAuth.
func (auth *AuthMiddleware) RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := GetActor(c)
			if !ok {
				return errs.NewUnauthorizedError(MsgNoToken, true)
			}

			if !actor.HasRole(roles...) {
				GetLogger(c).Warn().
					Str("function", "RequireRole").
					Msg("role not permitted")
				return errs.NewForbiddenError(MsgAccessDenied, true)
			}

			return next(c)
		}
	}
}
