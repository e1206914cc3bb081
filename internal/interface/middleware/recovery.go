package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-manager/pkg/response"
)

// Recovery converts a panic into the internal error envelope and logs the stack.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithFields(logrus.Fields{
					"error":      fmt.Sprint(rec),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
					"stack":      string(debug.Stack()),
				}).Error("panic recovered")
				if c.Writer.Written() {
					c.Abort()
					return
				}
				response.Error(c, http.StatusInternalServerError, apperror.InternalMessage)
			}
		}()
		c.Next()
	}
}

// WithLogger exposes logger to response.Fail for internal error logging.
func WithLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.LoggerKey, logrus.FieldLogger(logger))
		c.Next()
	}
}

func notFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
}

// NotFound answers unmatched routes with the 404 envelope.
func NotFound() gin.HandlerFunc { return notFound }
