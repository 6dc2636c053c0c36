// Package store defines the persistence interfaces for accounts and posts
// and provides SQLite-backed and in-memory implementations.
package store

import (
	"context"

	"github.com/goodthings/server/internal/domain"
)

// Users is the account repository. Implementations assign ID and CreatedAt
// on Create and reject duplicate emails with domain.ErrEmailTaken; missing
// rows surface as domain.ErrNotFound.
type Users interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// Posts is the content-record repository.
// Implementations may be backed by SQLite (this package), memory, etc.
type Posts interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)

	// List returns all posts, newest first.
	List(ctx context.Context) ([]domain.Post, error)

	GetByID(ctx context.Context, id string) (*domain.Post, error)
}
