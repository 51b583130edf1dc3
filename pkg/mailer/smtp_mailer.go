package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers messages over SMTP using go-mail.
type SMTPMailer struct {
	config *Config
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// Send delivers one message. The returned provider message id is the
// generated Message-ID header, which SMTP-relayed bounce webhooks echo.
func (m *SMTPMailer) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(req.FromName, req.FromAddress); err != nil {
		return nil, fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.To(req.To); err != nil {
		return nil, fmt.Errorf("failed to set email recipient: %w", err)
	}

	msg.Subject(req.Subject)
	msg.SetBodyString(mail.TypeTextHTML, req.HTMLBody)
	if req.TextBody != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, req.TextBody)
	}

	messageID := fmt.Sprintf("%s@mailfleet", uuid.New().String())
	msg.SetMessageIDWithValue(messageID)
	msg.SetGenHeader(CorrelationHeader, req.CorrelationID)
	msg.SetGenHeader(TrackingHeader, req.TrackingID)

	opts := []mail.Option{
		mail.WithPort(m.config.Port),
		mail.WithTimeout(m.config.sendTimeout()),
	}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}
	if m.config.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return &SendResult{
		ProviderMessageID: messageID,
		StatusCode:        250,
	}, nil
}
