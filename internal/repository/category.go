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

type CategoryRepository struct {
	server *server.Server
}

func NewCategoryRepository(s *server.Server) *CategoryRepository {
	return &CategoryRepository{server: s}
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	stmt := `
		INSERT INTO
			categories (name)
		VALUES
			(@name)
		RETURNING
			*
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to insert category %s: %w", name, err)
	}

	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, fmt.Errorf("failed to insert category %s: %w", name, sqlerr.WrapNotFound("categories", err))
	}

	return &category, nil
}

// List returns every category, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `SELECT * FROM categories ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, fmt.Errorf("failed to collect categories: %w", err)
	}

	return categories, nil
}

// CountExisting returns how many distinct ids in ids name an existing
// category. Callers compare it with len(ids), so a duplicated id makes
// the list invalid.
func (r *CategoryRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int
	err := r.server.DB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ANY(@ids)`,
		pgx.NamedArgs{"ids": ids},
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return count, nil
}
