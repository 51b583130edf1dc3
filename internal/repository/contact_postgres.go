package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new PostgreSQL repository for contacts
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, user_id, email, first_name, last_name, variables,
	invalid_email, suppressed, created_at, updated_at`

type contactModel struct {
	ID           string
	UserID       string
	Email        string
	FirstName    sql.NullString
	LastName     sql.NullString
	Variables    domain.MapOfAny
	InvalidEmail bool
	Suppressed   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func scanContactModel(scanner interface {
	Scan(dest ...interface{}) error
}) (*contactModel, error) {
	var m contactModel
	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.Variables,
		&m.InvalidEmail, &m.Suppressed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *contactModel) toDomain() *domain.Contact {
	return &domain.Contact{
		ID:           m.ID,
		UserID:       m.UserID,
		Email:        m.Email,
		FirstName:    m.FirstName.String,
		LastName:     m.LastName.String,
		Variables:    m.Variables,
		InvalidEmail: m.InvalidEmail,
		Suppressed:   m.Suppressed,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Get retrieves a contact by ID
func (r *contactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1`, contactColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	model, err := scanContactModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrContactNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return model.toDomain(), nil
}

// GetByIDs retrieves contacts for the given ids, deduplicated, ordered
// by contact id (the queue's deterministic order), and with invalid or
// suppressed addresses filtered out.
func (r *contactRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT ON (id) %s FROM contacts
		WHERE id = ANY($1) AND NOT invalid_email AND NOT suppressed
		ORDER BY id`, contactColumns)

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		model, err := scanContactModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, model.toDomain())
	}
	return contacts, rows.Err()
}

// MarkInvalidEmail flags the contact's address as undeliverable
func (r *contactRepository) MarkInvalidEmail(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET invalid_email = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact invalid: %w", err)
	}
	return requireRow(result, &domain.ErrContactNotFound{ID: id})
}

// MarkSuppressed excludes the contact from future targeting
func (r *contactRepository) MarkSuppressed(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET suppressed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact suppressed: %w", err)
	}
	return requireRow(result, &domain.ErrContactNotFound{ID: id})
}
