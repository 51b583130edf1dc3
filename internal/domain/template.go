package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_template_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain TemplateRepository

// Template is a message template. Subject and bodies carry Liquid
// variables substituted at dispatch time with the contact's data.
type Template struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	HTMLBody  string    `json:"html_body"`
	TextBody  string    `json:"text_body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RenderedMessage is the final content handed to a provider, with
// variable substitution and tracking instrumentation applied.
type RenderedMessage struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// TemplateRepository defines methods for template persistence
type TemplateRepository interface {
	// Get retrieves a template by ID
	Get(ctx context.Context, id string) (*Template, error)

	// GetByIDs retrieves the templates for the given ids
	GetByIDs(ctx context.Context, ids []string) (map[string]*Template, error)
}
