package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	parseURL string
}

// NewHealthHandler creates a new HealthHandler reporting the configured parse endpoint.
func NewHealthHandler(parseURL string) *HealthHandler {
	return &HealthHandler{parseURL: parseURL}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.parseURL == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "parse endpoint not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "parse_url": h.parseURL})
}
