package handler

import (
	"strings"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/deppfellow/storefront/internal/validation"
	"github.com/labstack/echo/v4"
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.Struct(r)
}

type CategoryHandler struct {
	Handler
	categories *service.CategoryService
}

func NewCategoryHandler(s *server.Server, categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		Handler:    NewHandler(s),
		categories: categories,
	}
}

func (h *CategoryHandler) Create(c echo.Context, req *CreateCategoryRequest) (*model.Category, error) {
	return h.categories.Create(c.Request().Context(), req.Name)
}

func (h *CategoryHandler) List(c echo.Context, _ *EmptyRequest) ([]model.Category, error) {
	return h.categories.List(c.Request().Context())
}
