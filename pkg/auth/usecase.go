package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IdentityUseCase creates and resolves accounts. There are no sessions:
// callers pass the claimed email with each request.
type IdentityUseCase interface {
	IdentityFinder
	Register(ctx context.Context, name, email, password string) (User, error)
}

type identityService struct {
	repo       UserRepository
	bcryptCost int
}

// NewIdentityService returns default implementation of IdentityUseCase.
func NewIdentityService(repo UserRepository, bcryptCost int) IdentityUseCase {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &identityService{repo: repo, bcryptCost: bcryptCost}
}

func (s *identityService) Register(ctx context.Context, name, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if _, err := mail.ParseAddress(email); err != nil || name == "" || len(password) < 8 {
		return User{}, ErrInvalidCredentials
	}

	// If user exists, fail fast (best-effort check)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *identityService) FindByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, ErrNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}
