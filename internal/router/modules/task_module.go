package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-task-manager/internal/interface/http"
)

// TaskModule serves the owner-scoped task routes. Every route requires a bearer token.
// Limit runs after Auth so it can key on the caller's user id.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Auth    gin.HandlerFunc
	Limit   gin.HandlerFunc
}

func NewTaskModule(h *handlers.TaskHandler, auth, limit gin.HandlerFunc) *TaskModule {
	return &TaskModule{Handler: h, Auth: auth, Limit: limit}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/tasks", m.Auth)
	if m.Limit != nil {
		g.Use(m.Limit)
	}
	g.POST("", m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/search", m.Handler.Search)
	g.GET("/:id", m.Handler.Get)
	g.PATCH("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
