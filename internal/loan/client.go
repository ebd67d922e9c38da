// Package loan is a thin client for the loan-assistance collaborator. The
// collaborator is opaque: it answers with a structured response or fails,
// and its internals are not this service's concern.
package loan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashchat-ai/ledger-assistant/internal/model"
)

// Client talks to the remote loan-assistance service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a loan client. Returns an error when no service URL is
// configured; callers treat a nil client as "loan assistance disabled".
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("loan service URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid loan service URL: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type queryRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// HandleQuery forwards a loan question for the given user.
func (c *Client) HandleQuery(ctx context.Context, userID, message string) (*model.LoanChatResponse, error) {
	body, err := json.Marshal(queryRequest{UserID: userID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal loan query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/loan/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build loan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loan service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loan service returned status %d", resp.StatusCode)
	}

	var out model.LoanChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode loan response: %w", err)
	}
	return &out, nil
}
