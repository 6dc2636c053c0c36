// In-memory implementation of the Users and Posts interfaces.
// This is a lightweight persistence layer used in development and tests,
// when durability is not required.
//
// Characteristics:
//   - Stores copies keyed by ID in maps.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Enforces email uniqueness with the same semantics as the SQLite store.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goodthings/server/internal/domain"
)

// MemoryUsers is a map-based Users implementation.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by User.ID
}

// NewMemoryUsers constructs an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]domain.User)}
}

// Create inserts a new user, assigning ID and CreatedAt.
// Returns domain.ErrEmailTaken if the email is already registered.
func (m *MemoryUsers) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	out := *u
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	m.users[out.ID] = out
	return &out, nil
}

// GetByEmail looks up a user by exact email.
func (m *MemoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByID looks up a user by ID.
func (m *MemoryUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

// Update overwrites the stored name and password hash for u.ID.
func (m *MemoryUsers) Update(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name = u.Name
	stored.PasswordHash = u.PasswordHash
	m.users[u.ID] = stored
	return nil
}

// MemoryPosts is a map-based Posts implementation.
type MemoryPosts struct {
	mu    sync.RWMutex
	posts map[string]domain.Post // keyed by Post.ID
}

// NewMemoryPosts constructs an empty in-memory post store.
func NewMemoryPosts() *MemoryPosts {
	return &MemoryPosts{posts: make(map[string]domain.Post)}
}

// Create inserts a new post, assigning ID and CreatedAt.
func (m *MemoryPosts) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *p
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	m.posts[out.ID] = out
	return &out, nil
}

// List returns all posts, newest first.
func (m *MemoryPosts) List(ctx context.Context) ([]domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID looks up a post by ID.
func (m *MemoryPosts) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.posts[id]; ok {
		out := p
		return &out, nil
	}
	return nil, domain.ErrNotFound
}
