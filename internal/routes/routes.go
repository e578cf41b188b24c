package routes

import (
	"net/http"

	"github.com/chat2db/designer/internal/handlers"
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler mounted under /api/v1.
type Handlers struct {
	Session  *handlers.SessionHandler
	Table    *handlers.TableHandler
	Relation *handlers.RelationHandler
	Diagram  *handlers.DiagramHandler
	Chat     *handlers.ChatHandler
	Schema   *handlers.SchemaHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api/v1")

	sessionRoutes := NewSessionRoutes(h.Session, h.Chat, h.Schema)
	sessionRoutes.RegisterRoutes(api)

	tableRoutes := NewTableRoutes(h.Table)
	tableRoutes.RegisterRoutes(api)

	relationRoutes := NewRelationRoutes(h.Relation)
	relationRoutes.RegisterRoutes(api)

	diagramRoutes := NewDiagramRoutes(h.Diagram)
	diagramRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
