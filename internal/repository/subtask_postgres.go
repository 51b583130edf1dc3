package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type subTaskRepository struct {
	db *sql.DB
}

// NewSubTaskRepository creates a new PostgreSQL repository for subtasks
func NewSubTaskRepository(db *sql.DB) domain.SubTaskRepository {
	return &subTaskRepository{db: db}
}

const subTaskColumns = `id, task_id, contact_id, template_id, status, provider_id, sender_address,
	rendered_subject, rendered_body, tracking_id, provider_message_id, error, retry_count,
	open_count, click_count, clicked_links, sent_at, delivered_at, opened_at, clicked_at,
	bounced_at, failed_at, unsubscribed_at, complained_at, created_at, updated_at`

// subTaskModel is the database model for subtasks
type subTaskModel struct {
	ID                string
	TaskID            string
	ContactID         string
	TemplateID        string
	Status            string
	ProviderID        sql.NullString
	SenderAddress     sql.NullString
	RenderedSubject   sql.NullString
	RenderedBody      sql.NullString
	TrackingID        string
	ProviderMessageID sql.NullString
	Error             sql.NullString
	RetryCount        int
	OpenCount         int
	ClickCount        int
	ClickedLinks      pq.StringArray
	SentAt            sql.NullTime
	DeliveredAt       sql.NullTime
	OpenedAt          sql.NullTime
	ClickedAt         sql.NullTime
	BouncedAt         sql.NullTime
	FailedAt          sql.NullTime
	UnsubscribedAt    sql.NullTime
	ComplainedAt      sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// scanSubTaskModel scans a database row into a subTaskModel
func scanSubTaskModel(scanner interface {
	Scan(dest ...interface{}) error
}) (*subTaskModel, error) {
	var m subTaskModel
	err := scanner.Scan(
		&m.ID, &m.TaskID, &m.ContactID, &m.TemplateID, &m.Status,
		&m.ProviderID, &m.SenderAddress, &m.RenderedSubject, &m.RenderedBody,
		&m.TrackingID, &m.ProviderMessageID, &m.Error, &m.RetryCount,
		&m.OpenCount, &m.ClickCount, &m.ClickedLinks,
		&m.SentAt, &m.DeliveredAt, &m.OpenedAt, &m.ClickedAt,
		&m.BouncedAt, &m.FailedAt, &m.UnsubscribedAt, &m.ComplainedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// toDomain converts a database model to a domain model
func (m *subTaskModel) toDomain() *domain.SubTask {
	return &domain.SubTask{
		ID:                m.ID,
		TaskID:            m.TaskID,
		ContactID:         m.ContactID,
		TemplateID:        m.TemplateID,
		Status:            domain.SubTaskStatus(m.Status),
		ProviderID:        nullStringPtr(m.ProviderID),
		SenderAddress:     nullStringPtr(m.SenderAddress),
		RenderedSubject:   nullStringPtr(m.RenderedSubject),
		RenderedBody:      nullStringPtr(m.RenderedBody),
		TrackingID:        m.TrackingID,
		ProviderMessageID: nullStringPtr(m.ProviderMessageID),
		Error:             nullStringPtr(m.Error),
		RetryCount:        m.RetryCount,
		OpenCount:         m.OpenCount,
		ClickCount:        m.ClickCount,
		ClickedLinks:      []string(m.ClickedLinks),
		SentAt:            nullTimePtr(m.SentAt),
		DeliveredAt:       nullTimePtr(m.DeliveredAt),
		OpenedAt:          nullTimePtr(m.OpenedAt),
		ClickedAt:         nullTimePtr(m.ClickedAt),
		BouncedAt:         nullTimePtr(m.BouncedAt),
		FailedAt:          nullTimePtr(m.FailedAt),
		UnsubscribedAt:    nullTimePtr(m.UnsubscribedAt),
		ComplainedAt:      nullTimePtr(m.ComplainedAt),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *subTaskRepository) getBy(ctx context.Context, column, value string) (*domain.SubTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM subtasks WHERE %s = $1`, subTaskColumns, column)

	row := r.db.QueryRowContext(ctx, query, value)
	model, err := scanSubTaskModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrSubTaskNotFound{ID: value}
		}
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return model.toDomain(), nil
}

// Get retrieves a subtask by ID
func (r *subTaskRepository) Get(ctx context.Context, id string) (*domain.SubTask, error) {
	return r.getBy(ctx, "id", id)
}

// GetByTrackingID resolves a public tracking token to its subtask
func (r *subTaskRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.SubTask, error) {
	return r.getBy(ctx, "tracking_id", trackingID)
}

// GetByProviderMessageID resolves a provider message identifier to its subtask
func (r *subTaskRepository) GetByProviderMessageID(ctx context.Context, providerMessageID string) (*domain.SubTask, error) {
	return r.getBy(ctx, "provider_message_id", providerMessageID)
}

// GetLatestSentToEmail returns the most recently sent subtask targeting
// the given address. Best-effort: under high volume to one address the
// pick can be ambiguous, which is why correlation ids are preferred.
func (r *subTaskRepository) GetLatestSentToEmail(ctx context.Context, email string) (*domain.SubTask, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subtasks s
		WHERE s.contact_id IN (SELECT id FROM contacts WHERE email = $1)
		AND s.sent_at IS NOT NULL
		ORDER BY s.sent_at DESC
		LIMIT 1`, prefixColumns("s", subTaskColumns))

	row := r.db.QueryRowContext(ctx, query, email)
	model, err := scanSubTaskModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrSubTaskNotFound{ID: email}
		}
		return nil, fmt.Errorf("failed to get latest sent subtask: %w", err)
	}
	return model.toDomain(), nil
}

// Allocate binds the subtask to a provider and increments the provider's
// used_quota in one transaction. The provider row update carries the
// availability predicate, so a disabled, frozen or exhausted provider
// can never be over-allocated.
func (r *subTaskRepository) Allocate(ctx context.Context, id, providerID, senderAddress string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE providers
		SET used_quota = used_quota + 1, updated_at = NOW()
		WHERE id = $1 AND enabled AND NOT frozen AND used_quota < daily_quota`,
		providerID)
	if err != nil {
		return fmt.Errorf("failed to increment provider quota: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read provider quota result: %w", err)
	}
	if rows == 0 {
		return domain.ErrProviderUnavailable
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $2, provider_id = $3, sender_address = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`,
		id, domain.SubTaskStatusAllocated, providerID, senderAddress, domain.SubTaskStatusPending)
	if err != nil {
		return fmt.Errorf("failed to allocate subtask: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read allocation result: %w", err)
	}
	if rows == 0 {
		// Not pending anymore; roll back the quota increment too
		return &domain.ErrInvalidTransition{From: domain.SubTaskStatusPending, To: domain.SubTaskStatusAllocated}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit allocation: %w", err)
	}
	return nil
}

// MarkSending records the rendered content and flips to sending
func (r *subTaskRepository) MarkSending(ctx context.Context, id string, subject, body string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $2, rendered_subject = $3, rendered_body = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`,
		id, domain.SubTaskStatusSending, subject, body, domain.SubTaskStatusAllocated)
	if err != nil {
		return fmt.Errorf("failed to mark subtask sending: %w", err)
	}
	return requireRow(result, &domain.ErrSubTaskNotFound{ID: id})
}

// MarkSent flips to sent and records the provider message id
func (r *subTaskRepository) MarkSent(ctx context.Context, id, providerMessageID string, sentAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $2, provider_message_id = $3, sent_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`,
		id, domain.SubTaskStatusSent, providerMessageID, sentAt, domain.SubTaskStatusSending)
	if err != nil {
		return fmt.Errorf("failed to mark subtask sent: %w", err)
	}
	return requireRow(result, &domain.ErrSubTaskNotFound{ID: id})
}

// MarkFailed flips to failed with the error message
func (r *subTaskRepository) MarkFailed(ctx context.Context, id, errorMessage string, failedAt time.Time) error {
	if len(errorMessage) > 512 {
		errorMessage = errorMessage[:512]
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $2, error = $3, failed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status IN ($5, $6)`,
		id, domain.SubTaskStatusFailed, errorMessage, failedAt,
		domain.SubTaskStatusAllocated, domain.SubTaskStatusSending)
	if err != nil {
		return fmt.Errorf("failed to mark subtask failed: %w", err)
	}
	return requireRow(result, &domain.ErrSubTaskNotFound{ID: id})
}

// milestoneColumn maps a target status to its timestamp column.
var milestoneColumn = map[domain.SubTaskStatus]string{
	domain.SubTaskStatusSent:         "sent_at",
	domain.SubTaskStatusDelivered:    "delivered_at",
	domain.SubTaskStatusOpened:       "opened_at",
	domain.SubTaskStatusClicked:      "clicked_at",
	domain.SubTaskStatusBounced:      "bounced_at",
	domain.SubTaskStatusFailed:       "failed_at",
	domain.SubTaskStatusUnsubscribed: "unsubscribed_at",
	domain.SubTaskStatusComplained:   "complained_at",
}

// Transition applies a lifecycle transition with the monotonic guard
// compiled into the statement: only rows currently in a status from
// which the target is reachable are updated. The milestone timestamp is
// set once and never overwritten, so replayed events are idempotent.
func (r *subTaskRepository) Transition(ctx context.Context, id string, to domain.SubTaskStatus, at time.Time) (bool, error) {
	column, ok := milestoneColumn[to]
	if !ok {
		return false, &domain.ErrInvalidTransition{From: "", To: to}
	}

	fromStatuses := transitionSources(to)
	if len(fromStatuses) == 0 {
		return false, &domain.ErrInvalidTransition{From: "", To: to}
	}

	query := fmt.Sprintf(`
		UPDATE subtasks
		SET status = $2, %s = COALESCE(%s, $3), updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)`, column, column)

	result, err := r.db.ExecContext(ctx, query, id, to, at, pq.Array(fromStatuses))
	if err != nil {
		return false, fmt.Errorf("failed to transition subtask: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read transition result: %w", err)
	}
	return rows > 0, nil
}

// transitionSources returns the statuses from which the target status is
// reachable per the lifecycle graph.
func transitionSources(to domain.SubTaskStatus) []string {
	all := []domain.SubTaskStatus{
		domain.SubTaskStatusPending, domain.SubTaskStatusAllocated, domain.SubTaskStatusSending,
		domain.SubTaskStatusSent, domain.SubTaskStatusDelivered, domain.SubTaskStatusOpened,
		domain.SubTaskStatusClicked, domain.SubTaskStatusBounced, domain.SubTaskStatusFailed,
	}
	var sources []string
	for _, from := range all {
		if domain.CanTransition(from, to) {
			sources = append(sources, string(from))
		}
	}
	return sources
}

// RecordOpen increments the open counter and sets opened_at when unset.
// Runs under row-level locking so concurrent hits never lose updates.
func (r *subTaskRepository) RecordOpen(ctx context.Context, id string, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin open transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var openedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT opened_at FROM subtasks WHERE id = $1 FOR UPDATE`, id).Scan(&openedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, &domain.ErrSubTaskNotFound{ID: id}
		}
		return false, fmt.Errorf("failed to lock subtask for open: %w", err)
	}
	first := !openedAt.Valid

	_, err = tx.ExecContext(ctx, `
		UPDATE subtasks
		SET open_count = open_count + 1,
		    opened_at = COALESCE(opened_at, $2),
		    status = CASE WHEN status IN ($3, $4) THEN $5 ELSE status END,
		    updated_at = NOW()
		WHERE id = $1`,
		id, at, domain.SubTaskStatusSent, domain.SubTaskStatusDelivered, domain.SubTaskStatusOpened)
	if err != nil {
		return false, fmt.Errorf("failed to record open: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit open: %w", err)
	}
	return first, nil
}

// RecordClick increments the click counter, appends the link when new
// and sets clicked_at (and opened_at; a click implies an open) when unset.
func (r *subTaskRepository) RecordClick(ctx context.Context, id, link string, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin click transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var clickedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT clicked_at FROM subtasks WHERE id = $1 FOR UPDATE`, id).Scan(&clickedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, &domain.ErrSubTaskNotFound{ID: id}
		}
		return false, fmt.Errorf("failed to lock subtask for click: %w", err)
	}
	first := !clickedAt.Valid

	_, err = tx.ExecContext(ctx, `
		UPDATE subtasks
		SET click_count = click_count + 1,
		    clicked_at = COALESCE(clicked_at, $2),
		    opened_at = COALESCE(opened_at, $2),
		    clicked_links = CASE WHEN $3 = ANY(clicked_links) THEN clicked_links
		                         ELSE array_append(clicked_links, $3) END,
		    status = CASE WHEN status IN ($4, $5, $6) THEN $7 ELSE status END,
		    updated_at = NOW()
		WHERE id = $1`,
		id, at, link,
		domain.SubTaskStatusSent, domain.SubTaskStatusDelivered, domain.SubTaskStatusOpened,
		domain.SubTaskStatusClicked)
	if err != nil {
		return false, fmt.Errorf("failed to record click: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit click: %w", err)
	}
	return first, nil
}

// Requeue resets failed -> pending for an explicit reschedule. The
// provider binding and error are cleared; retry_count is incremented.
func (r *subTaskRepository) Requeue(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $2, provider_id = NULL, sender_address = NULL, error = NULL,
		    failed_at = NULL, retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		id, domain.SubTaskStatusPending, domain.SubTaskStatusFailed)
	if err != nil {
		return fmt.Errorf("failed to requeue subtask: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read requeue result: %w", err)
	}
	if rows == 0 {
		return &domain.ErrInvalidTransition{From: domain.SubTaskStatusFailed, To: domain.SubTaskStatusPending}
	}
	return nil
}

// FailStale fails every subtask caught between allocation and send,
// typically by a crash or restart. Failed rows are reschedulable, so
// nothing is lost, only delayed.
func (r *subTaskRepository) FailStale(ctx context.Context, reason string, at time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks
		SET status = $1, error = $2, failed_at = $3, updated_at = NOW()
		WHERE status = ANY($4)`,
		domain.SubTaskStatusFailed, reason, at,
		pq.Array([]string{string(domain.SubTaskStatusAllocated), string(domain.SubTaskStatusSending)}))
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale subtasks: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read stale subtask result: %w", err)
	}
	return int(rows), nil
}

// ListIDsByTask returns the task's still-pending subtask ids in
// generation order
func (r *subTaskRepository) ListIDsByTask(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM subtasks WHERE task_id = $1 AND status = $2 ORDER BY contact_id`,
		taskID, domain.SubTaskStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtask ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subtask id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountSentBySender counts subtasks sent from a sender address since the
// given time. Backs the per-binding daily limit check at dispatch.
func (r *subTaskRepository) CountSentBySender(ctx context.Context, senderAddress string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subtasks WHERE sender_address = $1 AND sent_at >= $2`,
		senderAddress, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sends for sender: %w", err)
	}
	return count, nil
}

// List retrieves subtasks with filtering and pagination
func (r *subTaskRepository) List(ctx context.Context, params domain.SubTaskListParams) ([]*domain.SubTask, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyFilters := func(b sq.SelectBuilder) sq.SelectBuilder {
		if params.TaskID != "" {
			b = b.Where(sq.Eq{"task_id": params.TaskID})
		}
		if params.ContactID != "" {
			b = b.Where(sq.Eq{"contact_id": params.ContactID})
		}
		if params.ProviderID != "" {
			b = b.Where(sq.Eq{"provider_id": params.ProviderID})
		}
		if params.Status != "" {
			b = b.Where(sq.Eq{"status": string(params.Status)})
		}
		if params.HasError != nil {
			if *params.HasError {
				b = b.Where(sq.NotEq{"error": nil})
			} else {
				b = b.Where(sq.Eq{"error": nil})
			}
		}
		return b
	}

	countQuery, countArgs, err := applyFilters(psql.Select("COUNT(*)").From("subtasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subtasks: %w", err)
	}

	listQuery, listArgs, err := applyFilters(psql.Select(subTaskColumns).From("subtasks")).
		OrderBy("created_at DESC", "id").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []*domain.SubTask
	for rows.Next() {
		model, err := scanSubTaskModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, model.toDomain())
	}
	return subtasks, total, rows.Err()
}

// CountByStatus returns the status distribution for a task
func (r *subTaskRepository) CountByStatus(ctx context.Context, taskID string) (map[domain.SubTaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM subtasks WHERE task_id = $1 GROUP BY status`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subtasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SubTaskStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[domain.SubTaskStatus(status)] = count
	}
	return counts, rows.Err()
}
