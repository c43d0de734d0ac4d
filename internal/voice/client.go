package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrCallFailed is returned when the provider did not accept the call
var ErrCallFailed = errors.New("voice provider rejected call")

// CallParams is the body posted to the call endpoint
type CallParams struct {
	RecipientPhoneNumber string `json:"recipient_phone_number"`
	AgentID              string `json:"agent_id"`
	SaasID               string `json:"saas_id"`
}

// CallResult is the provider's view of an initiated call
type CallResult struct {
	CallSID string `json:"call_sid"`
	Status  string `json:"status"`
}

type callResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Data    CallResult `json:"data"`
}

// Client talks to the voice/telephony REST API
type Client struct {
	callURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a client posting to callURL
func NewClient(callURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		callURL: callURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// InitiateCall asks the provider to place a call
func (c *Client) InitiateCall(ctx context.Context, params CallParams) (*CallResult, error) {
	if c.callURL == "" {
		return nil, fmt.Errorf("%w: voice api url not configured", ErrCallFailed)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.callURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reach voice api: %w", ErrCallFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read voice api response: %w", ErrCallFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrCallFailed, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out callResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode voice api response: %w", ErrCallFailed, err)
	}
	if out.Data.CallSID == "" {
		return nil, fmt.Errorf("%w: status %q: %s", ErrCallFailed, out.Status, out.Message)
	}
	return &out.Data, nil
}
