package routes

import (
	"github.com/chat2db/designer/internal/handlers"
	"github.com/gin-gonic/gin"
)

type DiagramRoutes struct {
	handler *handlers.DiagramHandler
}

func NewDiagramRoutes(handler *handlers.DiagramHandler) *DiagramRoutes {
	return &DiagramRoutes{handler: handler}
}

func (r *DiagramRoutes) RegisterRoutes(router *gin.RouterGroup) {
	diagram := router.Group("/sessions/:id/diagram")
	{
		diagram.GET("", r.handler.GetDiagram)
		diagram.PUT("/auto-layout", r.handler.SetAutoLayout)
		diagram.PUT("/nodes/:node_id/position", r.handler.MoveNode)
		diagram.POST("/nodes/:node_id/select", r.handler.SelectNode)
		diagram.DELETE("/selection", r.handler.ClearSelection)
	}
}
