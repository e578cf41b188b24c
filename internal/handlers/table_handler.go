package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{
		tableService: tableService,
	}
}

// CreateTable handles POST /api/v1/sessions/:id/tables
func (h *TableHandler) CreateTable(c *gin.Context) {
	table, snap, err := h.tableService.AddTable(c.Param("id"))
	if err != nil {
		responses.Error(c, err, "Error while creating the table")
		return
	}
	responses.Success(c, http.StatusCreated, gin.H{
		"table":   table,
		"session": snap,
	}, "Table created successfully")
}

// RenameTable handles PATCH /api/v1/sessions/:id/tables/:name
func (h *TableHandler) RenameTable(c *gin.Context) {
	var req services.RenameTableRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.tableService.RenameTable(c.Param("id"), c.Param("name"), req)
	if err != nil {
		responses.Error(c, err, "Error while renaming the table")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Table renamed successfully")
}

// UpdateTable handles PUT /api/v1/sessions/:id/tables/:name
func (h *TableHandler) UpdateTable(c *gin.Context) {
	var req services.UpdateTableRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.tableService.UpdateTable(c.Param("id"), c.Param("name"), req)
	if err != nil {
		responses.Error(c, err, "Error while updating the table")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Table updated successfully")
}

// DeleteTable handles DELETE /api/v1/sessions/:id/tables/:name
func (h *TableHandler) DeleteTable(c *gin.Context) {
	snap, err := h.tableService.DeleteTable(c.Param("id"), c.Param("name"))
	if err != nil {
		responses.Error(c, err, "Error while deleting the table")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Table deleted successfully")
}

// AddColumn handles POST /api/v1/sessions/:id/tables/:name/columns
func (h *TableHandler) AddColumn(c *gin.Context) {
	var req services.ColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.tableService.AddColumn(c.Param("id"), c.Param("name"), req)
	if err != nil {
		responses.Error(c, err, "Error while adding the column")
		return
	}
	responses.Success(c, http.StatusCreated, snap, "Column added successfully")
}

// EditColumn handles PUT /api/v1/sessions/:id/tables/:name/columns/:index
func (h *TableHandler) EditColumn(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req services.ColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.tableService.EditColumn(c.Param("id"), c.Param("name"), index, req)
	if err != nil {
		responses.Error(c, err, "Error while editing the column")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Column updated successfully")
}

// RemoveColumn handles DELETE /api/v1/sessions/:id/tables/:name/columns/:index
func (h *TableHandler) RemoveColumn(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	snap, err := h.tableService.RemoveColumn(c.Param("id"), c.Param("name"), index)
	if err != nil {
		responses.Error(c, err, "Error while removing the column")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Column removed successfully")
}
