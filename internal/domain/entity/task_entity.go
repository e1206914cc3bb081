package entity

import (
	"math"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskPatch carries the fields of a partial update. Nil means unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// TaskFilter scopes a listing to one owner, optionally by status, one page at a time.
type TaskFilter struct {
	UserID   string
	Status   TaskStatus
	Page     int
	PageSize int
}

// Offset is the number of records to skip for the filter's page.
// It saturates at math.MaxInt instead of overflowing, which is past any real result set.
func (f TaskFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(total / pageSize).
func NewPagination(page, pageSize int, total int64) Pagination {
	var pages int64
	if pageSize > 0 {
		pages = total / int64(pageSize)
		if total%int64(pageSize) != 0 {
			pages++
		}
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}

type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}
