package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type DiagramHandler struct {
	diagramService *services.DiagramService
}

func NewDiagramHandler(diagramService *services.DiagramService) *DiagramHandler {
	return &DiagramHandler{
		diagramService: diagramService,
	}
}

// GetDiagram handles GET /api/v1/sessions/:id/diagram
func (h *DiagramHandler) GetDiagram(c *gin.Context) {
	view, err := h.diagramService.Get(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Failed to load diagram")
		return
	}
	responses.Success(c, http.StatusOK, view, "Diagram retrieved successfully")
}

// SetAutoLayout handles PUT /api/v1/sessions/:id/diagram/auto-layout
func (h *DiagramHandler) SetAutoLayout(c *gin.Context) {
	var req services.AutoLayoutRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.diagramService.SetAutoLayout(c.Param("id"), req)
	if err != nil {
		responses.Error(c, err, "Failed to switch auto-layout")
		return
	}
	responses.Success(c, http.StatusOK, view, "Auto-layout updated")
}

// MoveNode handles PUT /api/v1/sessions/:id/diagram/nodes/:node_id/position
func (h *DiagramHandler) MoveNode(c *gin.Context) {
	var req services.MoveNodeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.diagramService.MoveNode(c.Param("id"), c.Param("node_id"), req)
	if err != nil {
		responses.Error(c, err, "Failed to move node")
		return
	}
	responses.Success(c, http.StatusOK, view, "Node moved")
}

// SelectNode handles POST /api/v1/sessions/:id/diagram/nodes/:node_id/select
func (h *DiagramHandler) SelectNode(c *gin.Context) {
	res, err := h.diagramService.Select(c.Param("id"), c.Param("node_id"))
	if err != nil {
		responses.Error(c, err, "Failed to select node")
		return
	}

	message := "Table selected"
	if res.Table == nil {
		message = "Selection cleared"
	}
	responses.Success(c, http.StatusOK, res, message)
}

// ClearSelection handles DELETE /api/v1/sessions/:id/diagram/selection
func (h *DiagramHandler) ClearSelection(c *gin.Context) {
	view, err := h.diagramService.ClearSelection(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Failed to clear selection")
		return
	}
	responses.Success(c, http.StatusOK, view, "Selection cleared")
}
