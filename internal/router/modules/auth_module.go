package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-task-manager/internal/interface/http"
)

// AuthModule serves sign-up, sign-in and the caller's profile.
// Public: POST /auth/signup, POST /auth/signin
// Protected: GET /auth/profile
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/signup", m.Handler.SignUp)
	g.POST("/signin", m.Handler.SignIn)
	g.GET("/profile", m.Auth, m.Handler.Profile)
}
