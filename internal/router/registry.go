package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them under one prefix of the engine.
// Middlewares added with Use apply to every module but not to the engine's NoRoute handler.
type Registry struct {
	Engine      *gin.Engine
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts modules under prefix, or on the engine itself when prefix is empty.
func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	root := &engine.RouterGroup
	if prefix != "" {
		root = engine.Group(prefix)
	}
	return &Registry{Engine: engine, Root: root}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	g := r.Root
	if len(r.middlewares) > 0 {
		g = r.Root.Group("", r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(g)
	}
}
