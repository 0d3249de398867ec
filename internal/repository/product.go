package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	server *server.Server
}

func NewProductRepository(s *server.Server) *ProductRepository {
	return &ProductRepository{server: s}
}

func (r *ProductRepository) collectOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.Product, error) {
	rows, err := r.server.DB.Pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, err
	}

	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
	if err != nil {
		return nil, sqlerr.WrapNotFound("products", err)
	}

	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error) {
	stmt := `
		INSERT INTO
			products (name, description, price, status, user_id, category_ids)
		VALUES
			(@name, @description, @price, @status, @user_id, @category_ids)
		RETURNING
			*
	`

	categoryIDs := params.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}

	product, err := r.collectOne(ctx, stmt, pgx.NamedArgs{
		"name":         params.Name,
		"description":  params.Description,
		"price":        params.Price,
		"status":       string(params.Status),
		"user_id":      params.UserID,
		"category_ids": categoryIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert product for user %s: %w", params.UserID, err)
	}

	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.collectOne(ctx, `SELECT * FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
}

// Update applies the supplied fields. An empty update returns the product
// unchanged.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, params model.UpdateProductParams) (*model.Product, error) {
	stmt, args, ok := buildProductUpdate(id, params)
	if !ok {
		return r.GetByID(ctx, id)
	}

	return r.collectOne(ctx, stmt, args)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.server.DB.Pool.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WrapNotFound("products", pgx.ErrNoRows)
	}

	return nil
}

// List returns one page of populated products and the total number of
// products matching the filter. q must be normalized.
func (r *ProductRepository) List(ctx context.Context, q model.ProductQuery) ([]model.PopulatedProduct, int64, error) {
	query := buildProductListQuery(q)

	var total int64
	if err := r.server.DB.Pool.QueryRow(ctx, query.countSQL, query.args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := r.server.DB.Pool.Query(ctx, query.listSQL, query.args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.PopulatedProduct])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect products: %w", err)
	}

	return products, total, nil
}
