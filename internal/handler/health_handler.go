package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	mockMode bool
	ready    func() bool
}

// NewHealthHandler creates a new HealthHandler. ready may be nil.
func NewHealthHandler(mockMode bool, ready func() bool) *HealthHandler {
	return &HealthHandler{mockMode: mockMode, ready: ready}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready != nil && !h.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "mock_mode": h.mockMode})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mock_mode": h.mockMode})
}
