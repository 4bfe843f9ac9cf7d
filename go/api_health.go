package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthAPI struct{}

// Get /health
// Liveness probe
func (api *HealthAPI) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
