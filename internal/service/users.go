// Package service contains the business logic of the API: credential
// handling (registration, login, profile) and post CRUD. Services receive
// their collaborators at construction and keep no mutable state of their
// own, so every method is safe for concurrent use.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodthings/server/internal/auth"
	"github.com/goodthings/server/internal/domain"
	"github.com/goodthings/server/internal/store"
)

// UserService handles registration, login, and profile operations, minting
// a bearer token on successful registration or login.
type UserService struct {
	users  store.Users
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(users store.Users, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// RegisterParams is the registration input shape.
type RegisterParams struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register validates input, creates the account, and returns a bearer token
// for it. The duplicate-email check here is a fast path only; the store's
// uniqueness constraint is the authoritative guard, so a concurrent
// duplicate still surfaces as domain.ErrEmailTaken from Create.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (string, *domain.User, error) {
	if err := validateStruct(p); err != nil {
		return "", nil, err
	}

	if _, err := s.users.GetByEmail(ctx, p.Email); err == nil {
		return "", nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return "", nil, err
	}

	u, err := s.users.Create(ctx, &domain.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", nil, domain.ErrEmailTaken
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// LoginParams is the login input shape.
type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the credentials and returns a bearer token. An unknown
// email and a wrong password return the identical
// domain.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *UserService) Login(ctx context.Context, p LoginParams) (string, error) {
	if err := validateStruct(p); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(p.Password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// WhoAmI loads the account behind a verified identity. A structurally valid
// token whose account has since vanished yields domain.ErrNotFound.
func (s *UserService) WhoAmI(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateParams is the profile-update input shape; nil fields are left
// untouched.
type UpdateParams struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateProfile mutates the display name and/or password of an
// authenticated account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p UpdateParams) (*domain.User, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Password != nil {
		hash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
