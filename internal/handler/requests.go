package handler

import (
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// IDParam binds and validates the :id path segment. A malformed id is a
// 400 with a field error.
type IDParam struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

// UUID is only safe to call after validation.
func (p IDParam) UUID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

func (p *IDParam) Validate() error {
	return validation.Struct(p)
}

// trimPtr trims *s in place so length and required rules see the stored
// value.
func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// actorFrom returns the caller recorded by RequireAuth.
func actorFrom(c echo.Context) (model.Actor, error) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return model.Actor{}, errs.NewUnauthorizedError(middleware.MsgNoToken, true)
	}
	return actor, nil
}

// parseUUIDs converts validated id strings. Invalid entries are rejected by
// the `uuid` tag before this runs.
func parseUUIDs(ids []string) []uuid.UUID {
	if ids == nil {
		return nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, uuid.MustParse(id))
	}
	return out
}
