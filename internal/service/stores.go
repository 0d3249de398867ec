package service

import (
	"context"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/google/uuid"
)

// UserStore is the persistence the services need for users.
// *repository.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type CategoryStore interface {
	Create(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

type ProductStore interface {
	Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateProductParams) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q model.ProductQuery) ([]model.PopulatedProduct, int64, error)
}

// Stores groups the persistence dependencies of Services.
type Stores struct {
	Users      UserStore
	Categories CategoryStore
	Products   ProductStore
}
