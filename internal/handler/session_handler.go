package handler

import (
	"github.com/gin-gonic/gin"

	"idpportal/internal/service"
)

// SessionHandler exposes the orchestrator state and notification banner.
type SessionHandler struct {
	uploadService service.UploadService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(uploadService service.UploadService) *SessionHandler {
	return &SessionHandler{uploadService: uploadService}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(c *gin.Context) {
	RespondOK(c, h.uploadService.Session())
}

// DismissAlert handles DELETE /api/v1/session/alert
func (h *SessionHandler) DismissAlert(c *gin.Context) {
	h.uploadService.DismissAlert()
	RespondOK(c, gin.H{"message": "alert dismissed"})
}
