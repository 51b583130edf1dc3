// Package mailer hands rendered messages to outbound providers over
// SMTP or a JSON HTTP API. Every send carries the subtask id as
// correlation metadata so asynchronous provider events can be mapped
// back without heuristics.
package mailer

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=pkgmocks github.com/mailfleet/mailfleet/pkg/mailer Mailer

// CorrelationHeader carries the subtask id on every outbound message.
const CorrelationHeader = "X-Mailfleet-Subtask-ID"

// TrackingHeader carries the public tracking token.
const TrackingHeader = "X-Mailfleet-Tracking-ID"

// DefaultSendTimeout bounds one provider send call. All provider I/O
// must finish in finite time; timeouts surface as send errors.
const DefaultSendTimeout = 30 * time.Second

// SendRequest is one logical send. It is attempted exactly once per
// allocation; retries go through an explicit reschedule upstream.
type SendRequest struct {
	FromAddress string
	FromName    string
	To          string
	Subject     string
	HTMLBody    string
	TextBody    string

	// CorrelationID is the subtask id, emitted as custom metadata
	CorrelationID string
	// TrackingID is the subtask's public tracking token
	TrackingID string
}

// SendResult reports the provider's acknowledgement of a send.
type SendResult struct {
	// ProviderMessageID is the provider's opaque message identifier,
	// stored for later webhook correlation
	ProviderMessageID string
	StatusCode        int
}

// Mailer is the interface for handing one message to a provider.
type Mailer interface {
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
}

// Config holds transport settings for a provider connection.
type Config struct {
	// SMTP transport
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool

	// HTTP API transport
	Endpoint string
	APIKey   string

	// Timeout bounds one send call; DefaultSendTimeout when zero
	Timeout time.Duration
}

func (c *Config) sendTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultSendTimeout
}

// Kind selects the transport implementation.
type Kind string

const (
	KindSMTP Kind = "smtp"
	KindHTTP Kind = "http"
)

// New creates a mailer for the given transport kind.
func New(kind Kind, config *Config) (Mailer, error) {
	switch kind {
	case KindSMTP:
		return NewSMTPMailer(config), nil
	case KindHTTP:
		return NewHTTPMailer(config), nil
	default:
		return nil, fmt.Errorf("unsupported mailer kind: %s", kind)
	}
}
