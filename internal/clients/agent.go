package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/chat2db/designer/internal/models"
)

// ChatRequest is the body sent to the agent service.
type ChatRequest struct {
	Messages  []models.Message      `json:"messages"`
	CurrentDB models.DatabaseSchema `json:"currentDb"`
}

// ChatResponse carries the agent's answer. UpdatedDB, when present, replaces
// the whole schema.
type ChatResponse struct {
	Response  string                 `json:"response"`
	UpdatedDB *models.DatabaseSchema `json:"updatedDb,omitempty"`
}

type AgentClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// HTTPAgentClient talks to the agent service over JSON/HTTP.
type HTTPAgentClient struct {
	url    string
	client *http.Client
}

// NewHTTPAgentClient creates a new HTTPAgentClient
func NewHTTPAgentClient(url string, timeout time.Duration) *HTTPAgentClient {
	return &HTTPAgentClient{url: url, client: newHTTPClient(timeout)}
}

func (c *HTTPAgentClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Messages == nil {
		req.Messages = []models.Message{}
	}
	req.CurrentDB = req.CurrentDB.Clone()

	var resp ChatResponse
	if err := postJSON(ctx, c.client, c.url, "agent", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
