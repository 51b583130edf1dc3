package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

//go:generate mockgen -destination mocks/mock_provider_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain ProviderRepository

// ProviderKind identifies the transport used to hand a message to the
// outbound provider.
type ProviderKind string

const (
	ProviderKindSMTP ProviderKind = "smtp"
	ProviderKindHTTP ProviderKind = "http"
)

// ProviderSettings holds the transport-specific connection details.
type ProviderSettings struct {
	// SMTP transport
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	UseTLS   bool   `json:"use_tls,omitempty"`

	// HTTP API transport
	Endpoint string `json:"endpoint,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// Value implements the driver.Valuer interface for database storage
func (s ProviderSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *ProviderSettings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return sql.ErrNoRows
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, s)
}

// Provider is an outbound sending account with its own daily capacity
// and rate. used_quota is a shared mutable counter incremented at
// allocation time and must never exceed daily_quota; it is reset
// externally once a day.
type Provider struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        ProviderKind     `json:"kind"`
	Domain      string           `json:"domain"`
	Enabled     bool             `json:"enabled"`
	Frozen      bool             `json:"frozen"`
	DailyQuota  int              `json:"daily_quota"`
	UsedQuota   int              `json:"used_quota"`
	RateSeconds int              `json:"rate_seconds"`
	Settings    ProviderSettings `json:"settings"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Available reports whether the provider may be allocated a send right now.
func (p *Provider) Available() bool {
	return p.Enabled && !p.Frozen && p.UsedQuota < p.DailyQuota
}

// RateInterval is the minimum spacing between two sends on this provider.
func (p *Provider) RateInterval() time.Duration {
	if p.RateSeconds <= 0 {
		return time.Second
	}
	return time.Duration(p.RateSeconds) * time.Second
}

// UserProvider grants a user access to a provider with a priority and a
// per-user sub-limit, and carries the sender address used for that
// user's mail through the provider.
type UserProvider struct {
	UserID        string    `json:"user_id"`
	ProviderID    string    `json:"provider_id"`
	SenderAddress string    `json:"sender_address"`
	Priority      int       `json:"priority"`
	DailyLimit    int       `json:"daily_limit"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProviderRepository defines methods for provider persistence
type ProviderRepository interface {
	// Get retrieves a provider by ID
	Get(ctx context.Context, id string) (*Provider, error)

	// ListEnabled retrieves all enabled providers
	ListEnabled(ctx context.Context) ([]*Provider, error)

	// ListAvailableForUser retrieves the enabled, non-frozen,
	// non-exhausted providers bound to a user, ordered by binding priority
	ListAvailableForUser(ctx context.Context, userID string) ([]*Provider, error)

	// GetBinding retrieves a user's binding to a provider
	GetBinding(ctx context.Context, userID, providerID string) (*UserProvider, error)

	// ListBindingsForUser retrieves all of a user's provider bindings
	ListBindingsForUser(ctx context.Context, userID string) ([]*UserProvider, error)

	// GetBindingBySender resolves a sender address back to its binding.
	// Used for reply-class webhook events addressed to the sender.
	GetBindingBySender(ctx context.Context, senderAddress string) (*UserProvider, error)

	// SetFrozen freezes or unfreezes a provider
	SetFrozen(ctx context.Context, id string, frozen bool) error

	// ResetUsedQuota zeroes the daily used counter (external daily reset)
	ResetUsedQuota(ctx context.Context, id string) error
}
