package handler

import (
	"strings"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/deppfellow/storefront/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// validatePrice requires a price that is present and not negative.
func validatePrice(price *decimal.Decimal, required bool) validation.CustomValidationErrors {
	switch {
	case price == nil && required:
		return validation.CustomValidationErrors{{Field: "price", Message: "is required"}}
	case price != nil && price.IsNegative():
		return validation.CustomValidationErrors{{Field: "price", Message: "must be greater than or equal to 0"}}
	default:
		return nil
	}
}

type StoreProductRequest struct {
	Name        string           `json:"name" validate:"required,max=25"`
	Description string           `json:"description" validate:"max=255"`
	Price       *decimal.Decimal `json:"price"`
	Status      string           `json:"status" validate:"omitempty,oneof=Active Archived"`
	Categories  []string         `json:"categories" validate:"required,dive,uuid"`
}

func (r *StoreProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)

	if err := validation.Struct(r); err != nil {
		return err
	}
	if priceErrs := validatePrice(r.Price, true); priceErrs != nil {
		return priceErrs
	}
	return nil
}

type ListProductsRequest struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1"`
	Sort   string `query:"sort" validate:"omitempty,oneof=name price status createdAt updatedAt"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
	Search string `query:"search" validate:"max=100"`
}

func (r *ListProductsRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateProductRequest carries only the fields to change. The same field
// rules as StoreProductRequest apply to whatever is present.
type UpdateProductRequest struct {
	IDParam
	Name        *string          `json:"name" validate:"omitnil,min=1,max=25"`
	Description *string          `json:"description" validate:"omitnil,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Status      *string          `json:"status" validate:"omitnil,oneof=Active Archived"`
	Categories  []string         `json:"categories" validate:"omitempty,dive,uuid"`
}

func (r *UpdateProductRequest) Validate() error {
	trimPtr(r.Name)
	trimPtr(r.Description)

	if err := validation.Struct(r); err != nil {
		return err
	}
	if priceErrs := validatePrice(r.Price, false); priceErrs != nil {
		return priceErrs
	}
	return nil
}

func (r *UpdateProductRequest) params() model.UpdateProductParams {
	params := model.UpdateProductParams{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryIDs: parseUUIDs(r.Categories),
	}
	if r.Status != nil {
		status := model.ProductStatus(*r.Status)
		params.Status = &status
	}
	return params
}

type DeleteProductRequest struct {
	IDParam
}

func (r *DeleteProductRequest) Validate() error {
	return validation.Struct(r)
}

// ProductUpdatedResponse wraps the updated product.
type ProductUpdatedResponse struct {
	Data    *model.Product `json:"data"`
	Message string         `json:"message"`
}

type ProductHandler struct {
	Handler
	products *service.ProductService
}

func NewProductHandler(s *server.Server, products *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:  NewHandler(s),
		products: products,
	}
}

func (h *ProductHandler) Store(c echo.Context, req *StoreProductRequest) (*model.Product, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}

	return h.products.Create(c.Request().Context(), actor, service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Status:      model.ProductStatus(req.Status),
		CategoryIDs: parseUUIDs(req.Categories),
	})
}

func (h *ProductHandler) Index(c echo.Context, req *ListProductsRequest) (*model.PaginatedResponse[model.PopulatedProduct], error) {
	return h.products.List(c.Request().Context(), model.ProductQuery{
		Page:   req.Page,
		Limit:  req.Limit,
		Sort:   model.ProductSort(req.Sort),
		Order:  model.SortOrder(req.Order),
		Search: req.Search,
	})
}

func (h *ProductHandler) Update(c echo.Context, req *UpdateProductRequest) (*ProductUpdatedResponse, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}

	product, err := h.products.Update(c.Request().Context(), actor, req.UUID(), req.params())
	if err != nil {
		return nil, err
	}
	return &ProductUpdatedResponse{Data: product, Message: service.MsgProductUpdated}, nil
}

func (h *ProductHandler) Delete(c echo.Context, req *DeleteProductRequest) (*MessageResponse, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}

	if err := h.products.Delete(c.Request().Context(), actor, req.UUID()); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: service.MsgProductDeleted}, nil
}
