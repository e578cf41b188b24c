package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/chat2db/designer/internal/models"
)

type SQLRequest struct {
	CurrentDB models.DatabaseSchema `json:"currentDb"`
	Dialect   string                `json:"dialect"`
}

// SQLResponse is the SQL-generation answer. SQL is empty when the service
// could not produce a script; Message is meant for the chat log either way.
type SQLResponse struct {
	SQL     string `json:"sql,omitempty"`
	Message string `json:"message,omitempty"`
}

type SQLGenClient interface {
	Generate(ctx context.Context, req SQLRequest) (*SQLResponse, error)
}

type HTTPSQLGenClient struct {
	url    string
	client *http.Client
}

// NewHTTPSQLGenClient creates a new HTTPSQLGenClient
func NewHTTPSQLGenClient(url string, timeout time.Duration) *HTTPSQLGenClient {
	return &HTTPSQLGenClient{url: url, client: newHTTPClient(timeout)}
}

func (c *HTTPSQLGenClient) Generate(ctx context.Context, req SQLRequest) (*SQLResponse, error) {
	req.CurrentDB = req.CurrentDB.Clone()

	var resp SQLResponse
	if err := postJSON(ctx, c.client, c.url, "sqlgen", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
