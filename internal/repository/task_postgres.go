package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new PostgreSQL repository for tasks
func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, name, contact_ids, template_ids, template_selection, priority,
	status, stats, scheduled_at, queued_at, completed_at, created_at, updated_at`

// taskModel is the database model for tasks
type taskModel struct {
	ID                string
	UserID            string
	Name              string
	ContactIDs        pq.StringArray
	TemplateIDs       pq.StringArray
	TemplateSelection string
	Priority          int
	Status            string
	Stats             domain.TaskStats
	ScheduledAt       sql.NullTime
	QueuedAt          sql.NullTime
	CompletedAt       sql.NullTime
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func scanTaskModel(scanner interface {
	Scan(dest ...interface{}) error
}) (*taskModel, error) {
	var m taskModel
	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Name, &m.ContactIDs, &m.TemplateIDs, &m.TemplateSelection,
		&m.Priority, &m.Status, &m.Stats, &m.ScheduledAt, &m.QueuedAt, &m.CompletedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *taskModel) toDomain() *domain.Task {
	return &domain.Task{
		ID:                m.ID,
		UserID:            m.UserID,
		Name:              m.Name,
		ContactIDs:        []string(m.ContactIDs),
		TemplateIDs:       []string(m.TemplateIDs),
		TemplateSelection: domain.TemplateSelection(m.TemplateSelection),
		Priority:          m.Priority,
		Status:            domain.TaskStatus(m.Status),
		Stats:             m.Stats,
		ScheduledAt:       nullTimePtr(m.ScheduledAt),
		QueuedAt:          nullTimePtr(m.QueuedAt),
		CompletedAt:       nullTimePtr(m.CompletedAt),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// Get retrieves a task by ID
func (r *taskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	model, err := scanTaskModel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrTaskNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return model.toDomain(), nil
}

// ListDue retrieves scheduled tasks whose scheduled time has elapsed,
// highest priority first.
func (r *taskRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE status = $1 AND (scheduled_at IS NULL OR scheduled_at <= $2)
		ORDER BY priority DESC, scheduled_at ASC
		LIMIT $3`, taskColumns)

	rows, err := r.db.QueryContext(ctx, query, domain.TaskStatusScheduled, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		model, err := scanTaskModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, model.toDomain())
	}
	return tasks, rows.Err()
}

// ListUnsettled retrieves tasks whose queues may still hold work. Used
// on startup to rebuild the in-memory scheduler state from storage.
func (r *taskRepository) ListUnsettled(ctx context.Context) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE status = ANY($1)
		ORDER BY created_at ASC`, taskColumns)

	statuses := pq.Array([]string{
		string(domain.TaskStatusQueued), string(domain.TaskStatusSending), string(domain.TaskStatusPaused),
	})
	rows, err := r.db.QueryContext(ctx, query, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		model, err := scanTaskModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, model.toDomain())
	}
	return tasks, rows.Err()
}

// UpdateStatus transitions the task status
func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	query := `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`
	args := []interface{}{id, status}
	if status == domain.TaskStatusCompleted || status == domain.TaskStatusFailed {
		query = `UPDATE tasks SET status = $2, completed_at = NOW(), updated_at = NOW() WHERE id = $1`
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return requireRow(result, &domain.ErrTaskNotFound{ID: id})
}

// CommitGeneration atomically deducts quota, writes the ledger entry,
// creates one subtask per contact and flips the task to queued. The
// quota row is locked first, so two generations for the same user can
// never both pass the balance check.
func (r *taskRepository) CommitGeneration(ctx context.Context, commit *domain.GenerationCommit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin generation transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	needed := len(commit.SubTasks)

	var balance int
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM user_quotas WHERE user_id = $1 FOR UPDATE`,
		commit.Task.UserID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrInsufficientQuota
		}
		return fmt.Errorf("failed to lock quota balance: %w", err)
	}
	if balance < needed {
		return domain.ErrInsufficientQuota
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_quotas SET balance = balance - $2, updated_at = NOW() WHERE user_id = $1`,
		commit.Task.UserID, needed)
	if err != nil {
		return fmt.Errorf("failed to deduct quota: %w", err)
	}

	entry := commit.LedgerEntry
	entry.BalanceBefore = balance
	entry.BalanceAfter = balance - needed
	_, err = tx.ExecContext(ctx, `
		INSERT INTO quota_ledger (id, user_id, task_id, delta, balance_before, balance_after, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, entry.TaskID, entry.Delta,
		entry.BalanceBefore, entry.BalanceAfter, entry.Reason, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write quota ledger entry: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subtasks (id, task_id, contact_id, template_id, status, tracking_id,
			retry_count, open_count, click_count, clicked_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, '{}', $7, $8)`)
	if err != nil {
		return fmt.Errorf("failed to prepare subtask insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range commit.SubTasks {
		_, err = stmt.ExecContext(ctx, st.ID, st.TaskID, st.ContactID, st.TemplateID,
			st.Status, st.TrackingID, st.CreatedAt, st.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert subtask for contact %s: %w", st.ContactID, err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET status = $2, stats = $3, queued_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		commit.Task.ID, domain.TaskStatusQueued, commit.Task.Stats, domain.TaskStatusScheduled)
	if err != nil {
		return fmt.Errorf("failed to queue task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read queue result: %w", err)
	}
	if rows == 0 {
		// Task moved out of scheduled concurrently; abort everything
		return &domain.ErrTaskNotFound{ID: commit.Task.ID}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation: %w", err)
	}
	return nil
}

// RecomputeStats recalculates the aggregate from subtask rows and stores
// it on the task. Engagement totals count milestone timestamps, not
// statuses, so an opened subtask that later reaches clicked still counts
// as opened.
func (r *taskRepository) RecomputeStats(ctx context.Context, id string) (*domain.TaskStats, error) {
	var stats domain.TaskStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'allocated' OR status = 'sending'),
			COUNT(sent_at),
			COUNT(delivered_at),
			COUNT(opened_at),
			COUNT(clicked_at),
			COUNT(bounced_at),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(unsubscribed_at),
			COUNT(complained_at)
		FROM subtasks WHERE task_id = $1`, id).Scan(
		&stats.TotalRecipients,
		&stats.TotalPending,
		&stats.TotalAllocated,
		&stats.TotalSent,
		&stats.TotalDelivered,
		&stats.TotalOpened,
		&stats.TotalClicked,
		&stats.TotalBounced,
		&stats.TotalFailed,
		&stats.TotalUnsubscribed,
		&stats.TotalComplained,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute task stats: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET stats = $2, updated_at = NOW() WHERE id = $1`, id, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to store task stats: %w", err)
	}
	if err := requireRow(result, &domain.ErrTaskNotFound{ID: id}); err != nil {
		return nil, err
	}
	return &stats, nil
}
