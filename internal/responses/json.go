package responses

import (
	"github.com/chat2db/designer/internal/apperrors"
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON writes the envelope. A non-nil err fills error and code.
func JSON(c *gin.Context, statusCode int, status string, data any, message string, err error) {
	response := APIResponse{
		Status:  status,
		Message: message,
		Data:    data,
	}

	if err != nil {
		response.Error = err.Error()
		response.Code = apperrors.ErrorCode(err)
	}

	c.JSON(statusCode, response)
}

func Success(c *gin.Context, statusCode int, data any, message string) {
	JSON(c, statusCode, "success", data, message, nil)
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	JSON(c, statusCode, "error", nil, message, err)
}

// Error writes err with the status its type maps to.
func Error(c *gin.Context, err error, message string) {
	Fail(c, apperrors.HTTPStatus(err), err, message)
}
