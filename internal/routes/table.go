package routes

import (
	"github.com/chat2db/designer/internal/handlers"
	"github.com/gin-gonic/gin"
)

type TableRoutes struct {
	handler *handlers.TableHandler
}

func NewTableRoutes(handler *handlers.TableHandler) *TableRoutes {
	return &TableRoutes{handler: handler}
}

func (r *TableRoutes) RegisterRoutes(router *gin.RouterGroup) {
	tables := router.Group("/sessions/:id/tables")
	{
		tables.POST("", r.handler.CreateTable)
		tables.PUT("/:name", r.handler.UpdateTable)
		tables.PATCH("/:name", r.handler.RenameTable)
		tables.DELETE("/:name", r.handler.DeleteTable)
		tables.POST("/:name/columns", r.handler.AddColumn)
		tables.PUT("/:name/columns/:index", r.handler.EditColumn)
		tables.DELETE("/:name/columns/:index", r.handler.RemoveColumn)
	}
}
