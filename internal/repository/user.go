package repository

import (
	"context"
	"errors"

	"newsdesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned when the username unique constraint fails.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when the email unique constraint fails.
	ErrEmailTaken = errors.New("email already exists")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
