package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthPath is public and exempt from rate limiting and access logging.
const HealthPath = "/health"

// Health registers the liveness probe.
func Health(rg *gin.RouterGroup) {
	rg.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
