package service

import (
	"context"
	"fmt"

	"github.com/goodthings/server/internal/domain"
	"github.com/goodthings/server/internal/store"
)

// PostService handles content-record CRUD for authenticated users.
type PostService struct {
	posts store.Posts
}

// NewPostService constructs a PostService.
func NewPostService(posts store.Posts) *PostService {
	return &PostService{posts: posts}
}

// CreatePostParams is the post-creation input shape.
type CreatePostParams struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// Create validates and persists a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID string, p CreatePostParams) (*domain.Post, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	post, err := s.posts.Create(ctx, &domain.Post{
		UserID: userID,
		Title:  p.Title,
		Body:   p.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

// Get returns one post by id, or domain.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}
