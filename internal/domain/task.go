package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_task_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain TaskRepository
//go:generate mockgen -destination mocks/mock_task_service.go -package mocks github.com/mailfleet/mailfleet/internal/domain TaskService

// TaskStatus represents the lifecycle status of a bulk-send task
type TaskStatus string

const (
	TaskStatusDraft     TaskStatus = "draft"
	TaskStatusScheduled TaskStatus = "scheduled"
	TaskStatusQueued    TaskStatus = "queued"
	TaskStatusSending   TaskStatus = "sending"
	TaskStatusPaused    TaskStatus = "paused"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// TemplateSelection determines how a template is picked for each subtask
// when the task carries more than one template.
type TemplateSelection string

const (
	// TemplateSelectionRandom picks uniformly at random across the task's templates
	TemplateSelectionRandom TemplateSelection = "random"
	// TemplateSelectionRoundRobin cycles through the task's templates in order
	TemplateSelectionRoundRobin TemplateSelection = "round_robin"
)

// TaskStats is the aggregate distribution of a task's subtask statuses.
// It is a pure function of the subtask rows and is recomputed, never
// maintained as an authoritative counter.
type TaskStats struct {
	TotalRecipients   int `json:"total_recipients"`
	TotalPending      int `json:"total_pending"`
	TotalAllocated    int `json:"total_allocated"`
	TotalSent         int `json:"total_sent"`
	TotalDelivered    int `json:"total_delivered"`
	TotalOpened       int `json:"total_opened"`
	TotalClicked      int `json:"total_clicked"`
	TotalBounced      int `json:"total_bounced"`
	TotalFailed       int `json:"total_failed"`
	TotalUnsubscribed int `json:"total_unsubscribed"`
	TotalComplained   int `json:"total_complained"`
}

// Value implements the driver.Valuer interface for database storage
func (s TaskStats) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *TaskStats) Scan(value interface{}) error {
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

// InFlight reports whether any subtask is still waiting to be dispatched.
func (s TaskStats) InFlight() bool {
	return s.TotalPending > 0 || s.TotalAllocated > 0
}

// Task is one bulk-send job targeting a resolved, deduplicated,
// deterministically ordered set of contacts.
type Task struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Name              string            `json:"name"`
	ContactIDs        []string          `json:"contact_ids"`
	TemplateIDs       []string          `json:"template_ids"`
	TemplateSelection TemplateSelection `json:"template_selection"`
	Priority          int               `json:"priority"`
	Status            TaskStatus        `json:"status"`
	Stats             TaskStats         `json:"stats"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	QueuedAt    *time.Time `json:"queued_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DueForGeneration reports whether the task is ready to be expanded into
// a subtask queue: scheduled, with a scheduled time that has elapsed.
func (t *Task) DueForGeneration(now time.Time) bool {
	if t.Status != TaskStatusScheduled {
		return false
	}
	if t.ScheduledAt == nil {
		return true
	}
	return !t.ScheduledAt.After(now)
}

// TaskRepository defines methods for task persistence
type TaskRepository interface {
	// Get retrieves a task by ID
	Get(ctx context.Context, id string) (*Task, error)

	// ListDue retrieves scheduled tasks whose scheduled time has elapsed
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Task, error)

	// ListUnsettled retrieves tasks whose queues may still hold work:
	// queued, sending or paused
	ListUnsettled(ctx context.Context) ([]*Task, error)

	// UpdateStatus transitions the task status
	UpdateStatus(ctx context.Context, id string, status TaskStatus) error

	// CommitGeneration atomically deducts quota, writes the ledger entry,
	// creates the subtasks and flips the task to queued. Any failure rolls
	// the whole transaction back, the quota deduction included.
	CommitGeneration(ctx context.Context, commit *GenerationCommit) error

	// RecomputeStats recalculates the aggregate from subtask rows and
	// stores it on the task, returning the fresh snapshot. Recomputing is
	// idempotent, so concurrent engagement events can never double count.
	RecomputeStats(ctx context.Context, id string) (*TaskStats, error)
}

// GenerationCommit carries everything the queue-building transaction writes.
type GenerationCommit struct {
	Task        *Task
	SubTasks    []*SubTask
	LedgerEntry *QuotaLedgerEntry
}

// TaskService defines the operations exposed to the admin surface
type TaskService interface {
	// GetTask retrieves a task with its current aggregate
	GetTask(ctx context.Context, id string) (*Task, error)

	// GenerateQueue expands a due task into its subtask queue
	GenerateQueue(ctx context.Context, taskID string) error

	// PauseTask stops the task's queue from being offered to pollers
	PauseTask(ctx context.Context, req *PauseTaskRequest) error

	// ResumeTask re-activates a paused queue at its saved cursor
	ResumeTask(ctx context.Context, req *ResumeTaskRequest) error

	// RescheduleSubTask resets a failed subtask to pending and re-appends
	// it to its task's queue
	RescheduleSubTask(ctx context.Context, req *RescheduleSubTaskRequest) error

	// ListSubTasks retrieves a filtered page of subtasks with the total count
	ListSubTasks(ctx context.Context, params SubTaskListParams) ([]*SubTask, int, error)
}

// PauseTaskRequest pauses a task's queue
type PauseTaskRequest struct {
	TaskID string `json:"task_id"`
}

func (r *PauseTaskRequest) Validate() error {
	if r.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if !govalidator.IsUUID(r.TaskID) {
		return fmt.Errorf("invalid task_id format")
	}
	return nil
}

// ResumeTaskRequest resumes a paused task's queue
type ResumeTaskRequest struct {
	TaskID string `json:"task_id"`
}

func (r *ResumeTaskRequest) Validate() error {
	if r.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if !govalidator.IsUUID(r.TaskID) {
		return fmt.Errorf("invalid task_id format")
	}
	return nil
}

// RescheduleSubTaskRequest resets a failed subtask to pending
type RescheduleSubTaskRequest struct {
	SubTaskID string `json:"subtask_id"`
}

func (r *RescheduleSubTaskRequest) Validate() error {
	if r.SubTaskID == "" {
		return fmt.Errorf("subtask_id is required")
	}
	if !govalidator.IsUUID(r.SubTaskID) {
		return fmt.Errorf("invalid subtask_id format")
	}
	return nil
}
