package service

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/tracking"
)

// MessageRenderer turns a template plus contact data into the final
// message content: Liquid variable substitution on subject and bodies,
// then tracking instrumentation on the HTML body (link rewriting and
// the open pixel).
type MessageRenderer struct {
	engine           *liquid.Engine
	trackingEndpoint string
}

// NewMessageRenderer creates a renderer pointing tracked URLs at the
// given public endpoint.
func NewMessageRenderer(trackingEndpoint string) *MessageRenderer {
	return &MessageRenderer{
		engine:           liquid.NewEngine(),
		trackingEndpoint: trackingEndpoint,
	}
}

// Render produces the message for one contact and subtask. The subtask's
// tracking token keys the rewritten links and the pixel back to it.
func (r *MessageRenderer) Render(template *domain.Template, contact *domain.Contact, trackingID string) (*domain.RenderedMessage, error) {
	data := map[string]interface{}(contact.TemplateData())

	subject, err := r.engine.ParseAndRenderString(template.Subject, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}

	htmlBody, err := r.engine.ParseAndRenderString(template.HTMLBody, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	textBody := ""
	if template.TextBody != "" {
		textBody, err = r.engine.ParseAndRenderString(template.TextBody, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render text body: %w", err)
		}
	}

	instrumenter := tracking.Instrumenter{
		Endpoint: r.trackingEndpoint,
		Token:    trackingID,
	}

	return &domain.RenderedMessage{
		Subject:  subject,
		HTMLBody: instrumenter.InstrumentHTML(htmlBody),
		TextBody: textBody,
	}, nil
}
