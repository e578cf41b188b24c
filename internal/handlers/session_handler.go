package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session := h.sessionService.Create()
	responses.Success(c, http.StatusCreated, session.Snapshot(), "Session created successfully")
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.sessionService.Snapshot(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Session not found")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Session retrieved successfully")
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.Delete(c.Param("id")); err != nil {
		responses.Error(c, err, "Failed to delete session")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Session deleted successfully")
}

// ResetSchema handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) ResetSchema(c *gin.Context) {
	snap, err := h.sessionService.Reset(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Failed to reset schema")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Schema has been reset")
}

// ReplaceSchema handles PUT /api/v1/sessions/:id/schema
func (h *SessionHandler) ReplaceSchema(c *gin.Context) {
	var schema models.DatabaseSchema
	if !bindJSON(c, &schema) {
		return
	}

	snap, err := h.sessionService.Replace(c.Param("id"), schema)
	if err != nil {
		responses.Error(c, err, "Failed to replace schema")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Schema replaced successfully")
}

// ValidateSchema handles POST /api/v1/sessions/:id/validate
func (h *SessionHandler) ValidateSchema(c *gin.Context) {
	issues, snap, err := h.sessionService.Validate(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Failed to validate schema")
		return
	}

	message := "Schema is correct"
	if len(issues) > 0 {
		message = "Schema has issues"
	}
	responses.Success(c, http.StatusOK, gin.H{
		"issues":  issues,
		"session": snap,
	}, message)
}
