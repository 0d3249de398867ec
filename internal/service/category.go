package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/sqlerr"
)

const MsgCategoryExists = "Category already exists"

type CategoryService struct {
	base
	categories CategoryStore
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	category, err := s.categories.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, errs.NewBadRequestError(MsgCategoryExists, true, errs.Code("CATEGORY_ALREADY_EXISTS"), nil, nil)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}

	return categories, nil
}
