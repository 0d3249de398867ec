// Package model holds the domain types shared by the repository, service
// and handler layers.
//
// Structs carry both `json` tags (API shape) and `db` tags (column names
// used by pgx.RowToStructByName).
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the columns every table has.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
