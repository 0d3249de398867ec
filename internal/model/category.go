package model

import "github.com/google/uuid"

type Category struct {
	Base
	Name string `json:"name" db:"name"`
}

// CategorySummary is a category as embedded in product listings.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
