// Package handler is the HTTP layer. Each endpoint binds and validates its
// request through the typed pipeline in base.go, calls one service method
// and returns the response body; errors are left to the global error
// handler.
package handler

import (
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
)

// DefaultStaticDir is where the docs UI and openapi.json are read from.
const DefaultStaticDir = "static"

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Auth     *AuthHandler
	Category *CategoryHandler
	Product  *ProductHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s, DefaultStaticDir),
		Auth:     NewAuthHandler(s, services.Auth, services.User),
		Category: NewCategoryHandler(s, services.Category),
		Product:  NewProductHandler(s, services.Product),
	}
}
