package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type webhookEventRepository struct {
	db *sql.DB
}

// NewWebhookEventRepository creates a new PostgreSQL repository for the event log
func NewWebhookEventRepository(db *sql.DB) domain.WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

const webhookEventColumns = `id, type, provider_kind, event_id, subtask_id, task_id, contact_id,
	user_id, recipient_email, provider_message_id, applied, timestamp, raw_payload, created_at`

type webhookEventModel struct {
	ID                string
	Type              string
	ProviderKind      string
	EventID           sql.NullString
	SubTaskID         sql.NullString
	TaskID            sql.NullString
	ContactID         sql.NullString
	UserID            sql.NullString
	RecipientEmail    sql.NullString
	ProviderMessageID sql.NullString
	Applied           bool
	Timestamp         time.Time
	RawPayload        string
	CreatedAt         time.Time
}

func scanWebhookEventModel(scanner interface {
	Scan(dest ...interface{}) error
}) (*webhookEventModel, error) {
	var m webhookEventModel
	err := scanner.Scan(
		&m.ID, &m.Type, &m.ProviderKind, &m.EventID, &m.SubTaskID, &m.TaskID,
		&m.ContactID, &m.UserID, &m.RecipientEmail, &m.ProviderMessageID,
		&m.Applied, &m.Timestamp, &m.RawPayload, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *webhookEventModel) toDomain() *domain.WebhookEvent {
	return &domain.WebhookEvent{
		ID:                m.ID,
		Type:              domain.EventType(m.Type),
		ProviderKind:      m.ProviderKind,
		EventID:           m.EventID.String,
		SubTaskID:         nullStringPtr(m.SubTaskID),
		TaskID:            nullStringPtr(m.TaskID),
		ContactID:         nullStringPtr(m.ContactID),
		UserID:            nullStringPtr(m.UserID),
		RecipientEmail:    m.RecipientEmail.String,
		ProviderMessageID: m.ProviderMessageID.String,
		Applied:           m.Applied,
		Timestamp:         m.Timestamp,
		RawPayload:        m.RawPayload,
		CreatedAt:         m.CreatedAt,
	}
}

// Store appends an event to the log
func (r *webhookEventRepository) Store(ctx context.Context, event *domain.WebhookEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO webhook_events (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, webhookEventColumns)

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Type, event.ProviderKind, event.EventID,
		event.SubTaskID, event.TaskID, event.ContactID, event.UserID,
		event.RecipientEmail, event.ProviderMessageID, event.Applied,
		event.Timestamp, event.RawPayload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store webhook event: %w", err)
	}
	return nil
}

// ListByType retrieves events of a type, newest first
func (r *webhookEventRepository) ListByType(ctx context.Context, eventType domain.EventType, limit, offset int) ([]*domain.WebhookEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM webhook_events
		WHERE type = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3`, webhookEventColumns)

	return r.queryEvents(ctx, query, eventType, limit, offset)
}

// ListBySubTask retrieves all events resolved to a subtask
func (r *webhookEventRepository) ListBySubTask(ctx context.Context, subTaskID string, limit, offset int) ([]*domain.WebhookEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM webhook_events
		WHERE subtask_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3`, webhookEventColumns)

	return r.queryEvents(ctx, query, subTaskID, limit, offset)
}

func (r *webhookEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.WebhookEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	defer rows.Close()

	var events []*domain.WebhookEvent
	for rows.Next() {
		model, err := scanWebhookEventModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook event: %w", err)
		}
		events = append(events, model.toDomain())
	}
	return events, rows.Err()
}

// CountByType retrieves the number of logged events of a type
func (r *webhookEventRepository) CountByType(ctx context.Context, eventType domain.EventType) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM webhook_events WHERE type = $1`, eventType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count webhook events: %w", err)
	}
	return count, nil
}
