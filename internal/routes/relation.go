package routes

import (
	"github.com/chat2db/designer/internal/handlers"
	"github.com/gin-gonic/gin"
)

type RelationRoutes struct {
	handler *handlers.RelationHandler
}

func NewRelationRoutes(handler *handlers.RelationHandler) *RelationRoutes {
	return &RelationRoutes{handler: handler}
}

func (r *RelationRoutes) RegisterRoutes(router *gin.RouterGroup) {
	relations := router.Group("/sessions/:id/relations")
	{
		relations.POST("", r.handler.CreateRelation)
		relations.PUT("/:index", r.handler.UpdateRelation)
		relations.DELETE("/:index", r.handler.DeleteRelation)
	}
}
