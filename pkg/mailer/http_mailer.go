package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPMailer delivers messages through a provider's JSON send API.
type HTTPMailer struct {
	config *Config
	client *http.Client
}

// NewHTTPMailer creates a new HTTP API mailer
func NewHTTPMailer(config *Config) *HTTPMailer {
	return &HTTPMailer{
		config: config,
		client: &http.Client{Timeout: config.sendTimeout()},
	}
}

type httpSendPayload struct {
	From     string            `json:"from"`
	FromName string            `json:"from_name,omitempty"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	HTML     string            `json:"html"`
	Text     string            `json:"text,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type httpSendResponse struct {
	MessageID string `json:"message_id"`
}

// Send posts one message to the provider endpoint. Non-2xx responses are
// returned as errors with the response body attached.
func (m *HTTPMailer) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	payload := httpSendPayload{
		From:     req.FromAddress,
		FromName: req.FromName,
		To:       req.To,
		Subject:  req.Subject,
		HTML:     req.HTMLBody,
		Text:     req.TextBody,
		Metadata: map[string]string{
			"correlation_id": req.CorrelationID,
			"tracking_id":    req.TrackingID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal send payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	}

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call provider send API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider send API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed httpSendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	return &SendResult{
		ProviderMessageID: parsed.MessageID,
		StatusCode:        resp.StatusCode,
	}, nil
}
