package model

import "time"

// Token subject kinds. Users and admins live in separate tables, the role
// claim keeps a token of one tier from opening routes of the other.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a row of either the usuarios or the administradores table.
// Both tables share the same shape; which one a value came from is decided
// by the repository that loaded it.
type Account struct {
	ID             int64     `json:"id"`
	Identification string    `json:"identificacion"`
	FirstName      string    `json:"nombre"`
	LastName       string    `json:"apellido"`
	PasswordHash   string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt      time.Time `json:"creado_en"`
	UpdatedAt      time.Time `json:"actualizado_en"`
}

// CreateAccountRequest is used by registration and by admin-side user creation
type CreateAccountRequest struct {
	Identification string `json:"identificacion"`
	FirstName      string `json:"nombre"`
	LastName       string `json:"apellido"`
	Password       string `json:"contrasena"`
}

// UpdateAccountRequest carries a partial update. Nil fields are left untouched.
type UpdateAccountRequest struct {
	Identification *string `json:"identificacion,omitempty"`
	FirstName      *string `json:"nombre,omitempty"`
	LastName       *string `json:"apellido,omitempty"`
	Password       *string `json:"contrasena,omitempty"`

	// Self-service password change for end users
	CurrentPassword *string `json:"contrasena_actual,omitempty"`
	NewPassword     *string `json:"nueva_contrasena,omitempty"`
}

// LoginRequest is shared by the user and admin login routes
type LoginRequest struct {
	Identification string `json:"identificacion"`
	Password       string `json:"contrasena"`
}

// AccountFilter contains the admin listing parameters for user accounts
type AccountFilter struct {
	Page     int
	PerPage  int
	Search   string
	DateFrom *time.Time // creation date, inclusive
	DateTo   *time.Time // creation date, inclusive of the whole day
	SortBy   string
	Order    string
}

// AccountPage is one page of an account listing
type AccountPage struct {
	Items       []Account `json:"usuarios"`
	Total       int64     `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
}
