package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
)

var (
	ErrTaskNotFound = apperror.NotFound("Task not found")
	errEmptyTitle   = apperror.Validation("title should not be empty")
	errBadStatus    = apperror.Validation("status must be one of the following values: todo, in_progress, done")
)

const (
	DefaultPage       = 1
	DefaultPageSize   = 10
	DefaultSearchSize = 10
	MaxSearchSize     = 50
)

type TaskService struct {
	Tasks   repo.TaskRepository
	Indexer TaskIndexer
	Logger  *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, indexer TaskIndexer, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Indexer: indexer, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      entity.TaskStatus
}

// ListTasksInput carries already-validated query parameters. Zero values take defaults.
type ListTasksInput struct {
	Status   entity.TaskStatus
	Page     int
	PageSize int
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	if in.Title == "" {
		return nil, errEmptyTitle
	}
	status := in.Status
	if status == "" {
		status = entity.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, errBadStatus
	}
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      userID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create task: %w", err))
	}
	s.index(ctx, *t)
	return t, nil
}

// List returns one page of the owner's tasks, newest first. Find and count run concurrently.
func (s *TaskService) List(ctx context.Context, userID string, in ListTasksInput) (*entity.TaskPage, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, errBadStatus
	}
	f := entity.TaskFilter{UserID: userID, Status: in.Status, Page: in.Page, PageSize: in.PageSize}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}

	var (
		tasks []entity.Task
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.Tasks.Find(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.Tasks.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(fmt.Errorf("list tasks: %w", err))
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return &entity.TaskPage{Tasks: tasks, Pagination: entity.NewPagination(f.Page, f.PageSize, total)}, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	if !s.Tasks.ValidID(id) {
		return nil, ErrTaskNotFound
	}
	t, err := s.Tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFoundOr(err, "get task")
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id string, p entity.TaskPatch) (*entity.Task, error) {
	if p.Title != nil && *p.Title == "" {
		return nil, errEmptyTitle
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, errBadStatus
	}
	if !s.Tasks.ValidID(id) {
		return nil, ErrTaskNotFound
	}
	t, err := s.Tasks.Update(ctx, id, userID, p)
	if err != nil {
		return nil, notFoundOr(err, "update task")
	}
	s.index(ctx, *t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if !s.Tasks.ValidID(id) {
		return ErrTaskNotFound
	}
	if err := s.Tasks.Delete(ctx, id, userID); err != nil {
		return notFoundOr(err, "delete task")
	}
	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("search delete failed")
		}
	}
	return nil
}

// Search runs a full-text query over the owner's tasks. Without an index it returns nothing.
func (s *TaskService) Search(ctx context.Context, userID, query string, size int) ([]entity.Task, error) {
	if s.Indexer == nil || query == "" {
		return []entity.Task{}, nil
	}
	if size <= 0 || size > MaxSearchSize {
		size = DefaultSearchSize
	}
	tasks, err := s.Indexer.Search(ctx, userID, query, size)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("search tasks: %w", err))
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, nil
}

func (s *TaskService) index(ctx context.Context, t entity.Task) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, t); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("search index failed")
	}
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return apperror.Internal(fmt.Errorf("%s: %w", op, err))
}
