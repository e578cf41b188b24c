package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
	exportService *services.ExportService
}

func NewSchemaHandler(schemaService *services.SchemaService, exportService *services.ExportService) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		exportService: exportService,
	}
}

// ImportSchema handles POST /api/v1/sessions/:id/import
func (h *SchemaHandler) ImportSchema(c *gin.Context) {
	var req services.ImportRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.schemaService.Import(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err, "Failed to import schema")
		return
	}
	responses.Success(c, http.StatusOK, res, "Schema imported successfully")
}

// ExportSQL handles POST /api/v1/sessions/:id/export. The body is optional.
func (h *SchemaHandler) ExportSQL(c *gin.Context) {
	var req services.ExportRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	res, err := h.exportService.Export(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err, "Failed to export schema")
		return
	}
	responses.Success(c, http.StatusOK, res, "Export finished")
}
