// Package router builds the Echo instance: the global middleware chain,
// the error handler and every route group.
package router

import (
	"net/http"

	"github.com/deppfellow/storefront/internal/handler"
	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services.Tokens)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Global(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerAuthRoutes(api, h, middlewares)
	registerCategoryRoutes(api, h, middlewares)
	registerProductRoutes(api, h, middlewares)

	return router
}

// Route gates are attached per route. Group-level middleware would also
// guard the group's catch-all 404 routes and turn unknown paths into 401s.

func registerAuthRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	adminOnly := []echo.MiddlewareFunc{mw.Auth.RequireAuth, mw.Auth.RequireRole(model.RoleAdmin)}

	auth := api.Group("/auth")
	auth.POST("/register", handler.Handle(h.Auth.Handler, h.Auth.Register, http.StatusCreated, &handler.RegisterRequest{}))
	auth.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK, &handler.LoginRequest{}), mw.RateLimit.Login())
	auth.POST("/create-user", handler.Handle(h.Auth.Handler, h.Auth.CreateUser, http.StatusCreated, &handler.CreateUserRequest{}), adminOnly...)
	auth.PUT("/update-role/:id", handler.Handle(h.Auth.Handler, h.Auth.UpdateRole, http.StatusOK, &handler.UpdateRoleRequest{}), adminOnly...)

	api.GET("/profile", handler.Handle(h.Auth.Handler, h.Auth.Profile, http.StatusOK, &handler.EmptyRequest{}), mw.Auth.RequireAuth)
}

func registerCategoryRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	categories := api.Group("/categories")
	categories.POST("/create", handler.Handle(h.Category.Handler, h.Category.Create, http.StatusCreated, &handler.CreateCategoryRequest{}), mw.Auth.RequireAuth)
	categories.GET("", handler.Handle(h.Category.Handler, h.Category.List, http.StatusOK, &handler.EmptyRequest{}), mw.Auth.RequireAuth)
}

func registerProductRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	sellers := []echo.MiddlewareFunc{mw.Auth.RequireAuth, mw.Auth.RequireRole(model.RoleAdmin, model.RoleSeller)}

	products := api.Group("/products")
	products.GET("/index", handler.Handle(h.Product.Handler, h.Product.Index, http.StatusOK, &handler.ListProductsRequest{}), mw.Auth.RequireAuth)
	products.POST("/store", handler.Handle(h.Product.Handler, h.Product.Store, http.StatusCreated, &handler.StoreProductRequest{}), sellers...)
	products.PUT("/update/:id", handler.Handle(h.Product.Handler, h.Product.Update, http.StatusOK, &handler.UpdateProductRequest{}), sellers...)
	products.DELETE("/delete/:id", handler.Handle(h.Product.Handler, h.Product.Delete, http.StatusOK, &handler.DeleteProductRequest{}), sellers...)
}
