package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-manager/pkg/response"
	"github.com/oksasatya/go-ddd-task-manager/pkg/validation"
)

// bind decodes and validates the JSON body, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := validation.BindJSON(c, dst); err != nil {
		response.Fail(c, apperror.Validation(validation.ToMessages(err)...))
		return false
	}
	return true
}

// bindQuery validates query parameters, answering 400 on failure.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Fail(c, apperror.Validation(validation.ToMessages(err)...))
		return false
	}
	return true
}

// ownerID is the authenticated user's id. Routes using it sit behind middleware.Auth.
func ownerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
