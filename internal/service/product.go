package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MsgInvalidCategories = "One or more categories are invalid"
	MsgInvalidOwner      = "Invalid user: User does not exist"
	MsgProductNotFound   = "Product not found"
	MsgAccessDenied      = "Access denied"
	MsgProductUpdated    = "Product updated successfully"
	MsgProductDeleted    = "Product deleted successfully"
)

type ProductService struct {
	base
	users      UserStore
	categories CategoryStore
	products   ProductStore
}

// CreateProductInput is a validated create request. Status may be empty.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Status      model.ProductStatus
	CategoryIDs []uuid.UUID
}

// productAction names the mutation in ownership errors.
type productAction string

const (
	actionUpdate productAction = "update"
	actionDelete productAction = "delete"
)

// authorizeProductMutation applies the ownership rule: admins may change
// any product, sellers only their own, everybody else nothing.
func authorizeProductMutation(actor model.Actor, product *model.Product, action productAction) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleSeller:
		if product.OwnedBy(actor.UserID) {
			return nil
		}
		return errs.NewForbiddenError(fmt.Sprintf("You can only %s your own products", action), true)
	default:
		return errs.NewForbiddenError(MsgAccessDenied, true)
	}
}

// validateCategories requires every id to name an existing category. A
// repeated id counts as invalid.
func (s *ProductService) validateCategories(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	count, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate categories: %w", err)
	}
	if count != len(ids) {
		return errs.NewBadRequestError(MsgInvalidCategories, true, errs.Code("CATEGORY_INVALID"), nil, nil)
	}

	return nil
}

// Create stores a product owned by the actor.
func (s *ProductService) Create(ctx context.Context, actor model.Actor, input CreateProductInput) (*model.Product, error) {
	if !actor.HasRole(model.RoleAdmin, model.RoleSeller) {
		return nil, errs.NewForbiddenError(MsgAccessDenied, true)
	}

	if err := s.validateCategories(ctx, input.CategoryIDs); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewBadRequestError(MsgInvalidOwner, true, errs.Code("USER_NOT_FOUND"), nil, nil)
	}

	status := input.Status
	if status == "" {
		status = model.ProductStatusActive
	}

	categoryIDs := input.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}

	product, err := s.products.Create(ctx, model.CreateProductParams{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Status:      status,
		UserID:      actor.UserID,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info().
		Str("product_id", product.ID.String()).
		Msg("product created")

	return product, nil
}

// List returns one page of the populated product listing.
func (s *ProductService) List(ctx context.Context, q model.ProductQuery) (*model.PaginatedResponse[model.PopulatedProduct], error) {
	q = q.Normalize()

	products, total, err := s.products.List(ctx, q)
	if err != nil {
		return nil, err
	}

	resp := model.NewPaginatedResponse(products, total, q.Page, q.Limit)
	return &resp, nil
}

// Update applies a partial update. Checks run in order: categories,
// existence, ownership.
func (s *ProductService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, params model.UpdateProductParams) (*model.Product, error) {
	if err := s.validateCategories(ctx, params.CategoryIDs); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeProductMutation(actor, product, actionUpdate); err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		params.Name = &name
	}
	if params.Description != nil {
		description := strings.TrimSpace(*params.Description)
		params.Description = &description
	}

	updated, err := s.products.Update(ctx, id, params)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(MsgProductNotFound, true, nil)
		}
		return nil, err
	}

	s.logger(ctx).Info().
		Str("product_id", id.String()).
		Msg("product updated")

	return updated, nil
}

// Delete removes a product. Checks run in order: existence, ownership.
func (s *ProductService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeProductMutation(actor, product, actionDelete); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return errs.NewNotFoundError(MsgProductNotFound, true, nil)
		}
		return err
	}

	s.logger(ctx).Info().
		Str("product_id", id.String()).
		Msg("product deleted")

	return nil
}

func (s *ProductService) load(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(MsgProductNotFound, true, nil)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return product, nil
}
