package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination mocks/mock_subtask_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain SubTaskRepository

// SubTaskStatus represents the lifecycle status of a single send unit
type SubTaskStatus string

const (
	SubTaskStatusPending      SubTaskStatus = "pending"
	SubTaskStatusAllocated    SubTaskStatus = "allocated"
	SubTaskStatusSending      SubTaskStatus = "sending"
	SubTaskStatusSent         SubTaskStatus = "sent"
	SubTaskStatusDelivered    SubTaskStatus = "delivered"
	SubTaskStatusOpened       SubTaskStatus = "opened"
	SubTaskStatusClicked      SubTaskStatus = "clicked"
	SubTaskStatusBounced      SubTaskStatus = "bounced"
	SubTaskStatusFailed       SubTaskStatus = "failed"
	SubTaskStatusUnsubscribed SubTaskStatus = "unsubscribed"
	SubTaskStatusComplained   SubTaskStatus = "complained"
)

// statusRank orders statuses along the forward lifecycle. Transitions
// never decrease the rank; duplicate or late events are logged but do
// not regress status.
var statusRank = map[SubTaskStatus]int{
	SubTaskStatusPending:      0,
	SubTaskStatusAllocated:    1,
	SubTaskStatusSending:      2,
	SubTaskStatusSent:         3,
	SubTaskStatusDelivered:    4,
	SubTaskStatusOpened:       5,
	SubTaskStatusClicked:      6,
	SubTaskStatusBounced:      7,
	SubTaskStatusFailed:       7,
	SubTaskStatusUnsubscribed: 8,
	SubTaskStatusComplained:   8,
}

// transitions is the directed lifecycle graph:
// pending -> allocated -> sending -> sent -> {delivered -> opened -> clicked} | bounced | failed.
// unsubscribed/complained are terminal side-branches reachable from any
// post-send state. failed -> pending exists only through the explicit
// reschedule operation, which is not part of this graph.
var transitions = map[SubTaskStatus][]SubTaskStatus{
	SubTaskStatusPending:   {SubTaskStatusAllocated},
	SubTaskStatusAllocated: {SubTaskStatusSending, SubTaskStatusFailed},
	SubTaskStatusSending:   {SubTaskStatusSent, SubTaskStatusFailed},
	SubTaskStatusSent:      {SubTaskStatusDelivered, SubTaskStatusOpened, SubTaskStatusClicked, SubTaskStatusBounced, SubTaskStatusFailed, SubTaskStatusUnsubscribed, SubTaskStatusComplained},
	SubTaskStatusDelivered: {SubTaskStatusOpened, SubTaskStatusClicked, SubTaskStatusBounced, SubTaskStatusUnsubscribed, SubTaskStatusComplained},
	SubTaskStatusOpened:    {SubTaskStatusClicked, SubTaskStatusUnsubscribed, SubTaskStatusComplained},
	SubTaskStatusClicked:   {SubTaskStatusUnsubscribed, SubTaskStatusComplained},
	SubTaskStatusBounced:   {},
	SubTaskStatusFailed:    {},
}

// CanTransition reports whether moving from one status to another follows
// the lifecycle graph.
func CanTransition(from, to SubTaskStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusRank returns the forward-ordering rank of a status. Unknown
// statuses rank lowest.
func StatusRank(s SubTaskStatus) int {
	return statusRank[s]
}

// SubTask is one per-contact send unit derived from a task. The set of
// subtasks for a task is fixed at generation time: subtasks are created
// once, mutated in place, and removed only by cascading task deletion.
type SubTask struct {
	ID         string        `json:"id"`
	TaskID     string        `json:"task_id"`
	ContactID  string        `json:"contact_id"`
	TemplateID string        `json:"template_id"`
	Status     SubTaskStatus `json:"status"`

	// Allocation outcome; nil until a provider tick picks this subtask up
	ProviderID    *string `json:"provider_id,omitempty"`
	SenderAddress *string `json:"sender_address,omitempty"`

	// Rendered content, filled at dispatch time
	RenderedSubject *string `json:"rendered_subject,omitempty"`
	RenderedBody    *string `json:"rendered_body,omitempty"`

	// Correlation handles for webhook reconciliation
	TrackingID        string  `json:"tracking_id"`
	ProviderMessageID *string `json:"provider_message_id,omitempty"`

	Error      *string `json:"error,omitempty"`
	RetryCount int     `json:"retry_count"`

	// Engagement counters
	OpenCount    int      `json:"open_count"`
	ClickCount   int      `json:"click_count"`
	ClickedLinks []string `json:"clicked_links,omitempty"`

	// Lifecycle milestone timestamps
	SentAt         *time.Time `json:"sent_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	OpenedAt       *time.Time `json:"opened_at,omitempty"`
	ClickedAt      *time.Time `json:"clicked_at,omitempty"`
	BouncedAt      *time.Time `json:"bounced_at,omitempty"`
	FailedAt       *time.Time `json:"failed_at,omitempty"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
	ComplainedAt   *time.Time `json:"complained_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubTask creates a pending subtask with a fresh tracking token.
func NewSubTask(taskID, contactID, templateID string) *SubTask {
	now := time.Now().UTC()
	return &SubTask{
		ID:         uuid.New().String(),
		TaskID:     taskID,
		ContactID:  contactID,
		TemplateID: templateID,
		Status:     SubTaskStatusPending,
		TrackingID: uuid.New().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SubTaskRepository defines methods for subtask persistence.
// Engagement updates run under row-level transactional protection so
// that concurrent webhook or tracking hits for the same subtask never
// lose updates.
type SubTaskRepository interface {
	// Get retrieves a subtask by ID
	Get(ctx context.Context, id string) (*SubTask, error)

	// GetByTrackingID resolves a public tracking token to its subtask
	GetByTrackingID(ctx context.Context, trackingID string) (*SubTask, error)

	// GetByProviderMessageID resolves a provider's opaque message
	// identifier to its subtask
	GetByProviderMessageID(ctx context.Context, providerMessageID string) (*SubTask, error)

	// GetLatestSentToEmail returns the most recently sent subtask whose
	// contact has the given address. Best-effort heuristic for webhook
	// events that carry neither a correlation id nor a message id.
	GetLatestSentToEmail(ctx context.Context, email string) (*SubTask, error)

	// Allocate binds the subtask to a provider and sender address and
	// increments the provider's used_quota, in one transaction. Returns
	// ErrProviderUnavailable when the provider is disabled, frozen or
	// exhausted at allocation time.
	Allocate(ctx context.Context, id, providerID, senderAddress string) error

	// MarkSending records the rendered content and flips to sending
	MarkSending(ctx context.Context, id string, subject, body string) error

	// MarkSent flips to sent and records the provider message id
	MarkSent(ctx context.Context, id, providerMessageID string, sentAt time.Time) error

	// MarkFailed flips to failed with the error message
	MarkFailed(ctx context.Context, id, errorMessage string, failedAt time.Time) error

	// Transition applies a lifecycle transition with the monotonic guard
	// compiled into the statement. Returns false when the transition was
	// not applicable (backward or duplicate), which is not an error.
	Transition(ctx context.Context, id string, to SubTaskStatus, at time.Time) (bool, error)

	// RecordOpen increments the open counter and sets opened_at when
	// unset. Returns true on the first open.
	RecordOpen(ctx context.Context, id string, at time.Time) (bool, error)

	// RecordClick increments the click counter, appends the link and sets
	// clicked_at (and opened_at) when unset. Returns true on first click.
	RecordClick(ctx context.Context, id, link string, at time.Time) (bool, error)

	// Requeue resets failed -> pending for an explicit reschedule,
	// incrementing retry_count. Fails on any other current status.
	Requeue(ctx context.Context, id string) error

	// FailStale fails every allocated or sending subtask, making rows
	// stranded by a crash reschedulable. Returns the number of rows moved.
	FailStale(ctx context.Context, reason string, at time.Time) (int, error)

	// ListIDsByTask returns the task's still-pending subtask ids in
	// generation order
	ListIDsByTask(ctx context.Context, taskID string) ([]string, error)

	// CountSentBySender counts subtasks sent from a sender address since
	// the given time
	CountSentBySender(ctx context.Context, senderAddress string, since time.Time) (int, error)

	// List retrieves subtasks with filtering and pagination
	List(ctx context.Context, params SubTaskListParams) ([]*SubTask, int, error)

	// CountByStatus returns the status distribution for a task
	CountByStatus(ctx context.Context, taskID string) (map[SubTaskStatus]int, error)
}

// SubTaskListParams contains filters for listing subtasks
type SubTaskListParams struct {
	TaskID     string        `json:"task_id,omitempty"`
	ContactID  string        `json:"contact_id,omitempty"`
	ProviderID string        `json:"provider_id,omitempty"`
	Status     SubTaskStatus `json:"status,omitempty"`
	HasError   *bool         `json:"has_error,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}

func (p *SubTaskListParams) Validate() error {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return nil
}
