package ports

import (
	"context"

	"github.com/michi-labs/catapi/internal/core/domain"
)

// CreateUserInput carries the registration payload.
type CreateUserInput struct {
	Name           string
	Identification string
	Email          string
	Age            int
	Username       string
	Password       string
	// IdempotencyKey is optional; repeated keys return the first created user.
	IdempotencyKey string
}

// UpdateUserInput carries a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Name           *string
	Identification *string
	Email          *string
	Age            *int
	Username       *string
	Password       *string
}

// UserService defines the account use cases.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// ValidateUser returns domain.ErrInvalidCredentials for both unknown users
	// and wrong passwords.
	ValidateUser(ctx context.Context, username, password string) (*domain.User, error)
}
