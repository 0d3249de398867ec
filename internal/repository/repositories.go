// Package repository handles all interactions with the database.
//
// Each repository owns the SQL for one table. Statements use pgx named
// arguments and rows are mapped with pgx.RowToStructByName. "No rows"
// errors are tagged with the table name through sqlerr.WrapNotFound so
// callers can still match pgx.ErrNoRows with errors.Is.
package repository

import (
	"github.com/deppfellow/storefront/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	User     *UserRepository
	Category *CategoryRepository
	Product  *ProductRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		User:     NewUserRepository(s),
		Category: NewCategoryRepository(s),
		Product:  NewProductRepository(s),
	}
}
