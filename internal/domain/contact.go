package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain ContactRepository

// MapOfAny represents a map of string to any value, used for template data
type MapOfAny map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m MapOfAny) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *MapOfAny) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return sql.ErrNoRows
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, m)
}

// Contact is a send target. InvalidEmail is set on hard bounces;
// Suppressed on spam reports and unsubscribes. Both exclude the contact
// from future targeting.
type Contact struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Variables    MapOfAny  `json:"variables,omitempty"`
	InvalidEmail bool      `json:"invalid_email"`
	Suppressed   bool      `json:"suppressed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TemplateData returns the substitution variables for rendering,
// with the built-in contact fields layered under any custom variables.
func (c *Contact) TemplateData() MapOfAny {
	data := MapOfAny{
		"email":      c.Email,
		"first_name": c.FirstName,
		"last_name":  c.LastName,
	}
	for k, v := range c.Variables {
		data[k] = v
	}
	return data
}

// ContactRepository defines methods for contact persistence
type ContactRepository interface {
	// Get retrieves a contact by ID
	Get(ctx context.Context, id string) (*Contact, error)

	// GetByIDs retrieves contacts for the given ids, deduplicated and
	// ordered by contact id, skipping invalid or suppressed addresses
	GetByIDs(ctx context.Context, ids []string) ([]*Contact, error)

	// MarkInvalidEmail flags the contact's address as undeliverable
	MarkInvalidEmail(ctx context.Context, id string) error

	// MarkSuppressed excludes the contact from future targeting
	MarkSuppressed(ctx context.Context, id string) error
}
