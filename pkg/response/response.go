// Package response writes JSON bodies and the fixed error envelope.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
)

// TimestampLayout is RFC3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorBody is the envelope every rejected request receives.
type ErrorBody struct {
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Method     string   `json:"method"`
	Message    []string `json:"message"`
}

var now = time.Now

// NewErrorBody builds the envelope for the current request.
func NewErrorBody(c *gin.Context, status int, messages []string) ErrorBody {
	if len(messages) == 0 {
		messages = []string{http.StatusText(status)}
	}
	return ErrorBody{
		StatusCode: status,
		Timestamp:  now().UTC().Format(TimestampLayout),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
		Message:    messages,
	}
}

// Success writes data as the response body.
func Success[T any](c *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// Empty writes the status with no body.
func Empty(c *gin.Context, status int) {
	c.Status(status)
	c.Writer.WriteHeaderNow()
}

// Error aborts the request with the envelope and the given messages.
func Error(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, NewErrorBody(c, status, messages))
}

// Fail translates err through the error taxonomy. Internal faults are logged with the
// request id; the client only sees the generic message.
func Fail(c *gin.Context, err error) {
	ae := apperror.From(err)
	if ae.Kind == apperror.KindInternal {
		loggerFrom(c).WithError(err).
			WithField("request_id", c.GetString("request_id")).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
	}
	_ = c.Error(err)
	Error(c, ae.HTTPStatus(), ae.PublicMessages()...)
}

// LoggerKey is where the router stores the logger on the gin context.
const LoggerKey = "logger"

func loggerFrom(c *gin.Context) logrus.FieldLogger {
	if l, ok := c.Get(LoggerKey); ok {
		if fl, ok := l.(logrus.FieldLogger); ok {
			return fl
		}
	}
	return logrus.StandardLogger()
}
