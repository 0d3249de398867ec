package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusArchived ProductStatus = "Archived"
)

func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusArchived
}

// Product keeps its categories as an ordered list of ids.
type Product struct {
	Base
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Status      ProductStatus   `json:"status" db:"status"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	CategoryIDs []uuid.UUID     `json:"categories" db:"category_ids"`
}

// OwnedBy reports whether userID owns the product.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// PopulatedProduct is the listing view: owner and categories are resolved.
// Categories keep the order of the stored id list; ids that no longer
// resolve are skipped.
type PopulatedProduct struct {
	Base
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description" db:"description"`
	Price       decimal.Decimal   `json:"price" db:"price"`
	Status      ProductStatus     `json:"status" db:"status"`
	Owner       *UserSummary      `json:"user" db:"owner"`
	Categories  []CategorySummary `json:"categories" db:"categories"`
}

type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Status      ProductStatus
	UserID      uuid.UUID
	CategoryIDs []uuid.UUID
}

// UpdateProductParams is a partial update. Nil fields are left unchanged;
// CategoryIDs is only applied when non-nil.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Status      *ProductStatus
	CategoryIDs []uuid.UUID
}

// IsEmpty reports whether the update would change nothing.
func (p UpdateProductParams) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Status == nil && p.CategoryIDs == nil
}
