package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers back the /livez and /readyz endpoints. Ready reports
// whether downstream dependencies (Mongo, Redis) answer; liveness only
// says the process is serving.
type HealthHandlers struct {
	Ready func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
