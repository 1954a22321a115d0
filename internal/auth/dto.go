package auth

import (
	coreuser "github.com/dchesque/app-loja/internal/core/user"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserDTO is accepted by POST /api/auth/register.
type CreateUserDTO struct {
	Email    string        `json:"email" validate:"required,email"`
	Password string        `json:"password" validate:"required,min=8"`
	Name     string        `json:"name" validate:"required,min=1"`
	Role     coreuser.Role `json:"role" validate:"required,oneof=MASTER_ADMIN ADMIN USER"`
	Active   *bool         `json:"active"`
}

// IsActive defaults to true when the field was omitted.
func (d CreateUserDTO) IsActive() bool {
	return d.Active == nil || *d.Active
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Email    *string        `json:"email" validate:"omitempty,email"`
	Password *string        `json:"password" validate:"omitempty,min=8"`
	Name     *string        `json:"name" validate:"omitempty,min=1"`
	Role     *coreuser.Role `json:"role" validate:"omitempty,oneof=MASTER_ADMIN ADMIN USER"`
	Active   *bool          `json:"active"`
}

// ListUsersQuery is parsed from the users listing query string.
type ListUsersQuery struct {
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps pageSize to MaxPageSize.
func (q *ListUsersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// DeactivateResult is the body of a successful deactivation.
type DeactivateResult struct {
	Message string
	User    *User
}
