package handlers

import (
	"strconv"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/responses"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Error(c, apperrors.NewValidationError("body", err.Error()), "Invalid request body")
		return false
	}
	return true
}

// indexParam reads a non-negative integer path parameter and answers 400
// when it is not one.
func indexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		responses.Error(c, apperrors.NewValidationError(name, "must be a non-negative integer"), "Invalid "+name)
		return 0, false
	}
	return index, true
}
