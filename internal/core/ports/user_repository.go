package ports

import (
	"context"

	"github.com/michi-labs/catapi/internal/core/domain"
)

// UserRepository is the Credential Store. Implementations enforce uniqueness of
// identification, email and username, returning a conflict error on violation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindAll returns every user in insertion order.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
	// Delete removes the user and returns the removed record.
	Delete(ctx context.Context, id string) (*domain.User, error)
}
