package handlers

import (
	"net/http"

	"github.com/chat2db/designer/internal/responses"
	"github.com/chat2db/designer/internal/services"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// SendMessage handles POST /api/v1/sessions/:id/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req services.ChatMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.chatService.Send(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Error(c, err, "Failed to send message")
		return
	}
	responses.Success(c, http.StatusOK, snap, "Message sent")
}
