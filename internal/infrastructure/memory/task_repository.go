package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]entity.Task
	now   func() time.Time
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: map[string]entity.Task{}, now: time.Now}
}

func (r *TaskRepository) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) matching(f entity.TaskFilter) []entity.Task {
	out := make([]entity.Task, 0)
	for _, t := range r.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r *TaskRepository) Find(_ context.Context, f entity.TaskFilter) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.matching(f)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	off := f.Offset()
	if off >= len(all) {
		return []entity.Task{}, nil
	}
	end := len(all)
	if f.PageSize > 0 && f.PageSize < end-off {
		end = off + f.PageSize
	}
	return all[off:end], nil
}

func (r *TaskRepository) Count(_ context.Context, f entity.TaskFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(f))), nil
}

func (r *TaskRepository) GetByID(_ context.Context, id, userID string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Update(_ context.Context, id, userID string, p entity.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = r.now().UTC()
	r.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
