package model

import "github.com/google/uuid"

type User struct {
	Base
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
}

// Profile is what a user sees about themself.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserSummary is the owner as embedded in product listings.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}
