package router

import (
	"github.com/oksasatya/go-ddd-task-manager/internal/container"
	handlers "github.com/oksasatya/go-ddd-task-manager/internal/interface/http"
	"github.com/oksasatya/go-ddd-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-manager/internal/router/modules"
)

// InitModules builds services and handlers from c and adds every module to the registry.
func InitModules(r *Registry, c *container.Container) {
	authSvc := c.AuthService()
	taskSvc := c.TaskService()
	authn := middleware.NewAuthenticator(c.JWT, authSvc)
	requireAuth := middleware.Auth(authn)
	perUser := middleware.RateLimit(c.Limiter(), c.Config.RateLimitUserMax, c.Config.RateLimitWindow, middleware.KeyByUserID(), nil, c.Logger)

	r.Add(
		ModuleFunc(modules.Health),
		modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger), requireAuth),
		modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, c.Logger), requireAuth, perUser),
	)
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Config.AppName))
	}
}
