package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/internal/application"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=todo in_progress done"`
}

// Absent fields stay untouched; the service validates title and status when present.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type listTasksQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	Page     string `form:"page" binding:"omitempty,posint"`
	PageSize string `form:"page_size" binding:"omitempty,posint"`
}

type searchTasksQuery struct {
	Q    string `form:"q"`
	Size string `form:"size" binding:"omitempty,posint"`
}

type taskList struct {
	Tasks []entity.Task `json:"tasks"`
}

func atoiOr(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Create POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), ownerID(c), application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.TaskStatus(req.Status),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// List GET /tasks?status=&page=&page_size=
func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), ownerID(c), application.ListTasksInput{
		Status:   entity.TaskStatus(q.Status),
		Page:     atoiOr(q.Page, application.DefaultPage),
		PageSize: atoiOr(q.PageSize, application.DefaultPageSize),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Search GET /tasks/search?q=&size=
func (h *TaskHandler) Search(c *gin.Context) {
	var q searchTasksQuery
	if !bindQuery(c, &q) {
		return
	}
	tasks, err := h.Svc.Search(c.Request.Context(), ownerID(c), q.Q, atoiOr(q.Size, application.DefaultSearchSize))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, taskList{Tasks: tasks})
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Update PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if !bind(c, &req) {
		return
	}
	patch := entity.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		s := entity.TaskStatus(*req.Status)
		patch.Status = &s
	}
	t, err := h.Svc.Update(c.Request.Context(), ownerID(c), c.Param("id"), patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Delete DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Empty(c, http.StatusOK)
}
