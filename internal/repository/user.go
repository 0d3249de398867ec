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

type UserRepository struct {
	server *server.Server
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{server: s}
}

func (r *UserRepository) collectOne(ctx context.Context, stmt string, args pgx.NamedArgs) (*model.User, error) {
	rows, err := r.server.DB.Pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, sqlerr.WrapNotFound("users", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	stmt := `
		INSERT INTO
			users (username, email, password_hash, role)
		VALUES
			(@username, @email, @password_hash, @role)
		RETURNING
			*
	`

	user, err := r.collectOne(ctx, stmt, pgx.NamedArgs{
		"username":      params.Username,
		"email":         params.Email,
		"password_hash": params.PasswordHash,
		"role":          string(params.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user %s: %w", params.Email, err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.collectOne(ctx, `SELECT * FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.collectOne(ctx, `SELECT * FROM users WHERE email = @email`, pgx.NamedArgs{"email": email})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	stmt := `
		UPDATE users
		SET
			role = @role
		WHERE
			id = @id
		RETURNING
			*
	`

	return r.collectOne(ctx, stmt, pgx.NamedArgs{
		"id":   id,
		"role": string(role),
	})
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.server.DB.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = @id)`,
		pgx.NamedArgs{"id": id},
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}

	return exists, nil
}
