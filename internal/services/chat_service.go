package services

import (
	"context"
	"strings"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/clients"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
	"go.uber.org/zap"
)

// MsgChatFailed is written to the chat log when the agent service fails.
const MsgChatFailed = "An error occurred on the server side."

// ChatService forwards the conversation to the agent service.
type ChatService struct {
	sessions *SessionService
	agent    clients.AgentClient
	logger   *zap.Logger
}

func NewChatService(sessions *SessionService, agent clients.AgentClient, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{sessions: sessions, agent: agent, logger: logger}
}

type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send appends the user message, asks the agent and applies its answer. An
// agent failure is not returned: it is logged and reported in the chat log,
// leaving the schema as it was.
func (s *ChatService) Send(ctx context.Context, sessionID string, req ChatMessageRequest) (editor.Snapshot, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return editor.Snapshot{}, apperrors.NewValidationError("content", "message must not be empty")
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.Snapshot{}, err
	}

	session.PushMessage(models.RoleUser, content)
	messages, schema := session.Conversation()

	resp, err := s.agent.Chat(ctx, clients.ChatRequest{Messages: messages, CurrentDB: schema})
	if err != nil {
		s.logger.Error("agent request failed", zap.String("session_id", sessionID), zap.Error(err))
		session.PushMessage(models.RoleAgent, MsgChatFailed)
		return session.Snapshot(), nil
	}

	session.PushMessage(models.RoleAgent, resp.Response)
	if resp.UpdatedDB != nil {
		session.Replace(*resp.UpdatedDB)
		s.logger.Info("schema updated by agent",
			zap.String("session_id", sessionID),
			zap.Int("tables", len(resp.UpdatedDB.Tables)),
			zap.Int("relations", len(resp.UpdatedDB.Relations)),
		)
	}
	return session.Snapshot(), nil
}
