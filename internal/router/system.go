package router

import (
	"github.com/deppfellow/storefront/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the endpoints outside /api: health, the docs
// UI and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.DefaultStaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
