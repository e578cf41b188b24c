package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	relationService *services.RelationService
}

func NewRelationHandler(relationService *services.RelationService) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
	}
}

// CreateRelation handles POST /api/v1/sessions/:id/relations
func (h *RelationHandler) CreateRelation(c *gin.Context) {
	var req services.RelationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.relationService.SaveRelation(c.Param("id"), req, nil)
	if err != nil {
		responses.Error(c, err, "Error while saving the relation")
		return
	}
	responses.Success(c, http.StatusOK, res, relationMessage(res.Applied, "Relation saved successfully"))
}

// UpdateRelation handles PUT /api/v1/sessions/:id/relations/:index
func (h *RelationHandler) UpdateRelation(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req services.RelationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.relationService.SaveRelation(c.Param("id"), req, &index)
	if err != nil {
		responses.Error(c, err, "Error while saving the relation")
		return
	}
	responses.Success(c, http.StatusOK, res, relationMessage(res.Applied, "Relation saved successfully"))
}

// DeleteRelation handles DELETE /api/v1/sessions/:id/relations/:index
func (h *RelationHandler) DeleteRelation(c *gin.Context) {
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}

	res, err := h.relationService.RemoveRelation(c.Param("id"), index)
	if err != nil {
		responses.Error(c, err, "Error while removing the relation")
		return
	}
	responses.Success(c, http.StatusOK, res, relationMessage(res.Applied, "Relation removed successfully"))
}

func relationMessage(applied bool, ok string) string {
	if applied {
		return ok
	}
	return "Nothing changed"
}
