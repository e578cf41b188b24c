package routes

import (
	"github.com/chat2db/designer/internal/handlers"
	"github.com/gin-gonic/gin"
)

type SessionRoutes struct {
	handler       *handlers.SessionHandler
	chatHandler   *handlers.ChatHandler
	schemaHandler *handlers.SchemaHandler
}

func NewSessionRoutes(handler *handlers.SessionHandler, chatHandler *handlers.ChatHandler, schemaHandler *handlers.SchemaHandler) *SessionRoutes {
	return &SessionRoutes{handler: handler, chatHandler: chatHandler, schemaHandler: schemaHandler}
}

func (r *SessionRoutes) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", r.handler.CreateSession)
		sessions.GET("/:id", r.handler.GetSession)
		sessions.DELETE("/:id", r.handler.DeleteSession)
		sessions.POST("/:id/reset", r.handler.ResetSchema)
		sessions.PUT("/:id/schema", r.handler.ReplaceSchema)
		sessions.POST("/:id/validate", r.handler.ValidateSchema)
		sessions.POST("/:id/chat", r.chatHandler.SendMessage)
		sessions.POST("/:id/export", r.schemaHandler.ExportSQL)
		sessions.POST("/:id/import", r.schemaHandler.ImportSchema)
	}
}
