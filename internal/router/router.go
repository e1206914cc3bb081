package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-manager/internal/container"
	"github.com/oksasatya/go-ddd-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-manager/internal/router/modules"
	"github.com/oksasatya/go-ddd-task-manager/pkg/validation"
)

// New builds the engine with global middleware and every module registered.
func New(c *container.Container) *gin.Engine {
	validation.Init()
	cfg := c.Config
	health := cfg.APIPrefix + modules.HealthPath

	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.RealIP(),
		middleware.WithLogger(c.Logger),
		middleware.Recovery(c.Logger),
	)
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger, health))
	}
	r.Use(
		middleware.SecurityHeaders(),
		cors.New(corsConfig(cfg.CORSOrigins())),
		middleware.RateLimit(c.Limiter(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), middleware.AllowPaths(health), c.Logger),
	)
	r.NoRoute(middleware.NotFound())

	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig allows every origin without credentials when origins is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
