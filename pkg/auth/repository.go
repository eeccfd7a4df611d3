package auth

import (
	"context"
	"errors"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IdentityFinder resolves an account by email (case-insensitive).
// It returns ErrNotFound when no account exists.
type IdentityFinder interface {
	FindByEmail(ctx context.Context, email string) (User, error)
}

// UserRepository abstracts persistence concerns from the domain layer.
type UserRepository interface {
	IdentityFinder
	Create(ctx context.Context, user User) error
}
