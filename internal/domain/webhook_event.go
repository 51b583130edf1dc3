package domain

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_webhook_event_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain WebhookEventRepository
//go:generate mockgen -destination mocks/mock_webhook_service.go -package mocks github.com/mailfleet/mailfleet/internal/domain WebhookService

// EventType is the normalized kind of an inbound provider event.
// Status-class events report the fate of a send; behavior-class events
// report recipient actions.
type EventType string

const (
	// Status-class
	EventTarget       EventType = "target"
	EventSent         EventType = "sent"
	EventDelivered    EventType = "delivered"
	EventInvalidEmail EventType = "invalid_email"
	EventSoftBounce   EventType = "soft_bounce"

	// Behavior-class
	EventOpen        EventType = "open"
	EventClick       EventType = "click"
	EventUnsubscribe EventType = "unsubscribe"
	EventReportSpam  EventType = "report_spam"
	EventReply       EventType = "reply"
)

// Known returns true for event types this engine reconciles.
func (t EventType) Known() bool {
	switch t {
	case EventTarget, EventSent, EventDelivered, EventInvalidEmail, EventSoftBounce,
		EventOpen, EventClick, EventUnsubscribe, EventReportSpam, EventReply:
		return true
	}
	return false
}

// InboundEvent is a provider payload decoded once at ingress into a
// single tagged value; downstream code switches exhaustively on Type
// instead of re-sniffing payload shape.
type InboundEvent struct {
	Type              EventType
	ProviderKind      string
	CorrelationID     string // subtask id carried as custom metadata on the send
	ProviderMessageID string
	RecipientEmail    string
	SenderEmail       string // reply-class: the address the reply was sent to
	EventID           string // provider-side event id, recorded for dedup analysis
	Timestamp         time.Time
	RawPayload        string
}

// WebhookEvent is the immutable append-only log row written for every
// inbound tracking or provider event, resolved or not.
type WebhookEvent struct {
	ID                string    `json:"id"`
	Type              EventType `json:"type"`
	ProviderKind      string    `json:"provider_kind"`
	EventID           string    `json:"event_id,omitempty"`
	SubTaskID         *string   `json:"subtask_id,omitempty"`
	TaskID            *string   `json:"task_id,omitempty"`
	ContactID         *string   `json:"contact_id,omitempty"`
	UserID            *string   `json:"user_id,omitempty"`
	RecipientEmail    string    `json:"recipient_email,omitempty"`
	ProviderMessageID string    `json:"provider_message_id,omitempty"`
	Applied           bool      `json:"applied"`
	Timestamp         time.Time `json:"timestamp"`
	RawPayload        string    `json:"raw_payload"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventListParams filters the event log read surface. Exactly one of
// SubTaskID and Type selects the slice.
type EventListParams struct {
	SubTaskID string    `json:"subtask_id,omitempty"`
	Type      EventType `json:"type,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
}

func (p *EventListParams) Validate() error {
	if (p.SubTaskID == "") == (p.Type == "") {
		return fmt.Errorf("exactly one of subtask_id and type is required")
	}
	if p.Type != "" && !p.Type.Known() {
		return fmt.Errorf("unknown event type: %s", p.Type)
	}
	if p.Limit <= 0 {
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

// WebhookEventRepository defines methods for the event log
type WebhookEventRepository interface {
	// Store appends an event to the log
	Store(ctx context.Context, event *WebhookEvent) error

	// ListByType retrieves events of a type, newest first
	ListByType(ctx context.Context, eventType EventType, limit, offset int) ([]*WebhookEvent, error)

	// ListBySubTask retrieves all events resolved to a subtask
	ListBySubTask(ctx context.Context, subTaskID string, limit, offset int) ([]*WebhookEvent, error)

	// CountByType retrieves the number of logged events of a type
	CountByType(ctx context.Context, eventType EventType) (int, error)
}

// WebhookService reconciles inbound provider events onto subtasks
type WebhookService interface {
	// ProcessWebhook decodes and reconciles one raw provider payload.
	// Unresolvable events are logged and ignored, never fatal.
	ProcessWebhook(ctx context.Context, providerKind string, rawPayload []byte) error

	// ListEvents reads the event log, filtered by subtask or by type,
	// returning the page and the total count for the filter
	ListEvents(ctx context.Context, params EventListParams) ([]*WebhookEvent, int, error)
}
