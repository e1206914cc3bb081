package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/internal/application"
	"github.com/oksasatya/go-ddd-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-manager/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// SignIn POST /auth/signin
// Answers 201 like sign-up: a successful sign-in creates a session token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Profile GET /auth/profile (auth required)
func (h *AuthHandler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, middleware.ErrUnauthenticated)
		return
	}
	response.Success(c, http.StatusOK, u)
}
