package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type providerRepository struct {
	db *sql.DB
}

// NewProviderRepository creates a new PostgreSQL repository for providers
func NewProviderRepository(db *sql.DB) domain.ProviderRepository {
	return &providerRepository{db: db}
}

const providerColumns = `id, name, kind, domain, enabled, frozen, daily_quota, used_quota,
	rate_seconds, settings, created_at, updated_at`

type providerModel struct {
	ID          string
	Name        string
	Kind        string
	Domain      string
	Enabled     bool
	Frozen      bool
	DailyQuota  int
	UsedQuota   int
	RateSeconds int
	Settings    domain.ProviderSettings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func scanProviderModel(scanner interface {
	Scan(dest ...interface{}) error
}) (*providerModel, error) {
	var m providerModel
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Kind, &m.Domain, &m.Enabled, &m.Frozen,
		&m.DailyQuota, &m.UsedQuota, &m.RateSeconds, &m.Settings,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *providerModel) toDomain() *domain.Provider {
	return &domain.Provider{
		ID:          m.ID,
		Name:        m.Name,
		Kind:        domain.ProviderKind(m.Kind),
		Domain:      m.Domain,
		Enabled:     m.Enabled,
		Frozen:      m.Frozen,
		DailyQuota:  m.DailyQuota,
		UsedQuota:   m.UsedQuota,
		RateSeconds: m.RateSeconds,
		Settings:    m.Settings,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Get retrieves a provider by ID
func (r *providerRepository) Get(ctx context.Context, id string) (*domain.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE id = $1`, providerColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	model, err := scanProviderModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrProviderNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return model.toDomain(), nil
}

// ListEnabled retrieves all enabled providers
func (r *providerRepository) ListEnabled(ctx context.Context) ([]*domain.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE enabled ORDER BY name`, providerColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled providers: %w", err)
	}
	defer rows.Close()

	return collectProviders(rows)
}

// ListAvailableForUser retrieves the enabled, non-frozen, non-exhausted
// providers bound to a user, ordered by binding priority.
func (r *providerRepository) ListAvailableForUser(ctx context.Context, userID string) ([]*domain.Provider, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM providers p
		JOIN user_providers up ON up.provider_id = p.id
		WHERE up.user_id = $1 AND p.enabled AND NOT p.frozen AND p.used_quota < p.daily_quota
		ORDER BY up.priority DESC, p.name`, prefixColumns("p", providerColumns))

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available providers: %w", err)
	}
	defer rows.Close()

	return collectProviders(rows)
}

func collectProviders(rows *sql.Rows) ([]*domain.Provider, error) {
	var providers []*domain.Provider
	for rows.Next() {
		model, err := scanProviderModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, model.toDomain())
	}
	return providers, rows.Err()
}

const bindingColumns = `user_id, provider_id, sender_address, priority, daily_limit, created_at`

func scanBinding(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.UserProvider, error) {
	var b domain.UserProvider
	err := scanner.Scan(&b.UserID, &b.ProviderID, &b.SenderAddress, &b.Priority, &b.DailyLimit, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBinding retrieves a user's binding to a provider
func (r *providerRepository) GetBinding(ctx context.Context, userID, providerID string) (*domain.UserProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_providers WHERE user_id = $1 AND provider_id = $2`, bindingColumns)

	binding, err := scanBinding(r.db.QueryRowContext(ctx, query, userID, providerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrProviderNotFound{ID: providerID}
		}
		return nil, fmt.Errorf("failed to get provider binding: %w", err)
	}
	return binding, nil
}

// ListBindingsForUser retrieves all of a user's provider bindings
func (r *providerRepository) ListBindingsForUser(ctx context.Context, userID string) ([]*domain.UserProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_providers WHERE user_id = $1 ORDER BY priority DESC`, bindingColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*domain.UserProvider
	for rows.Next() {
		binding, err := scanBinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider binding: %w", err)
		}
		bindings = append(bindings, binding)
	}
	return bindings, rows.Err()
}

// GetBindingBySender resolves a sender address back to its binding
func (r *providerRepository) GetBindingBySender(ctx context.Context, senderAddress string) (*domain.UserProvider, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_providers WHERE sender_address = $1 LIMIT 1`, bindingColumns)

	binding, err := scanBinding(r.db.QueryRowContext(ctx, query, senderAddress))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrProviderNotFound{ID: senderAddress}
		}
		return nil, fmt.Errorf("failed to resolve sender binding: %w", err)
	}
	return binding, nil
}

// SetFrozen freezes or unfreezes a provider
func (r *providerRepository) SetFrozen(ctx context.Context, id string, frozen bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE providers SET frozen = $2, updated_at = NOW() WHERE id = $1`, id, frozen)
	if err != nil {
		return fmt.Errorf("failed to set provider frozen state: %w", err)
	}
	return requireRow(result, &domain.ErrProviderNotFound{ID: id})
}

// ResetUsedQuota zeroes the daily used counter
func (r *providerRepository) ResetUsedQuota(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE providers SET used_quota = 0, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to reset provider quota: %w", err)
	}
	return requireRow(result, &domain.ErrProviderNotFound{ID: id})
}
