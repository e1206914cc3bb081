package modules

import (
	"expvar"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-manager/internal/interface/middleware"
)

var (
	startedAt   = time.Now()
	publishOnce sync.Once
)

// DebugModule serves expvar at /debug/vars to private-network clients only.
// Everyone else gets the same 404 as an unknown route.
type DebugModule struct {
	AppName string
}

func NewDebugModule(appName string) *DebugModule { return &DebugModule{AppName: appName} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishOnce.Do(func() {
		expvar.NewString("app").Set(m.AppName)
		expvar.Publish("uptime_seconds", expvar.Func(func() any {
			return int64(time.Since(startedAt).Seconds())
		}))
	})
	rg.GET("/debug/vars", middleware.RequireAllowed(middleware.AllowPrivateIP()), gin.WrapH(expvar.Handler()))
}
