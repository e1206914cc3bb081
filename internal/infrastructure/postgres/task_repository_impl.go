package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
)

const taskColumns = `id::text, user_id::text, title, description, status, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *TaskRepository) ValidID(id string) bool { return validUUID(id) }

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, t.UserID, t.Title, t.Description, string(t.Status))
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// where builds the owner-scoped predicate shared by Find and Count.
func where(f entity.TaskFilter) (string, []any) {
	clause := `WHERE user_id = $1`
	args := []any{f.UserID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		clause += ` AND status = $` + strconv.Itoa(len(args))
	}
	return clause, args
}

func (r *TaskRepository) Find(ctx context.Context, f entity.TaskFilter) ([]entity.Task, error) {
	clause, args := where(f)
	args = append(args, f.PageSize, f.Offset())
	n := len(args)
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks `+clause+
		` ORDER BY created_at DESC, id DESC LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Task, 0, f.PageSize)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Count(ctx context.Context, f entity.TaskFilter) (int64, error) {
	clause, args := where(f)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tasks `+clause, args...).Scan(&n)
	return n, err
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*entity.Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, p entity.TaskPatch) (*entity.Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id, userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	return scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+
			` WHERE id = $1 AND user_id = $2 RETURNING `+taskColumns, args...))
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
