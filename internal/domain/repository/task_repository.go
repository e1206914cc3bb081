package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
)

// TaskRepository defines owner-scoped persistence for tasks. Every lookup
// takes the owner id; a task owned by someone else is reported as ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	Find(ctx context.Context, f entity.TaskFilter) ([]entity.Task, error)
	Count(ctx context.Context, f entity.TaskFilter) (int64, error)
	GetByID(ctx context.Context, id, userID string) (*entity.Task, error)
	Update(ctx context.Context, id, userID string, p entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id, userID string) error
	// ValidID reports whether id is in the store's native identifier format.
	ValidID(id string) bool
}
