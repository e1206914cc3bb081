package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the persistence operations for user records.
type UserRepository interface {
	// Create assigns u.ID and timestamps. It returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
