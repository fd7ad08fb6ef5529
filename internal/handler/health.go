package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports service liveness in the shape the frontends poll.
func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": service})
	}
}
