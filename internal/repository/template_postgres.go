package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new PostgreSQL repository for templates
func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `id, user_id, name, subject, html_body, text_body, created_at, updated_at`

func scanTemplate(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Template, error) {
	var t domain.Template
	var textBody sql.NullString
	err := scanner.Scan(&t.ID, &t.UserID, &t.Name, &t.Subject, &t.HTMLBody, &textBody,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.TextBody = textBody.String
	return &t, nil
}

// Get retrieves a template by ID
func (r *templateRepository) Get(ctx context.Context, id string) (*domain.Template, error) {
	query := fmt.Sprintf(`SELECT %s FROM templates WHERE id = $1`, templateColumns)

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrTemplateNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// GetByIDs retrieves the templates for the given ids
func (r *templateRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Template, error) {
	if len(ids) == 0 {
		return map[string]*domain.Template{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM templates WHERE id = ANY($1)`, templateColumns)

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	defer rows.Close()

	templates := make(map[string]*domain.Template, len(ids))
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates[template.ID] = template
	}
	return templates, rows.Err()
}
