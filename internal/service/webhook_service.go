package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// WebhookService reconciles asynchronous provider events onto subtasks.
// Every inbound event is appended to the log whether or not it could be
// resolved; only resolvable, forward-moving events mutate state.
type WebhookService struct {
	subTaskRepo      domain.SubTaskRepository
	taskRepo         domain.TaskRepository
	contactRepo      domain.ContactRepository
	providerRepo     domain.ProviderRepository
	conversationRepo domain.ConversationRepository
	eventRepo        domain.WebhookEventRepository
	logger           logger.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	subTaskRepo domain.SubTaskRepository,
	taskRepo domain.TaskRepository,
	contactRepo domain.ContactRepository,
	providerRepo domain.ProviderRepository,
	conversationRepo domain.ConversationRepository,
	eventRepo domain.WebhookEventRepository,
	log logger.Logger,
) *WebhookService {
	return &WebhookService{
		subTaskRepo:      subTaskRepo,
		taskRepo:         taskRepo,
		contactRepo:      contactRepo,
		providerRepo:     providerRepo,
		conversationRepo: conversationRepo,
		eventRepo:        eventRepo,
		logger:           log,
	}
}

// ProcessWebhook decodes one raw provider payload, which may carry a
// single event or a batch, and reconciles each event. Per-event
// failures are logged and skipped; only an undecodable payload is an
// error, so providers get their 2xx and do not re-deliver forever.
func (s *WebhookService) ProcessWebhook(ctx context.Context, providerKind string, rawPayload []byte) error {
	events := decodeInboundEvents(providerKind, rawPayload)
	if len(events) == 0 {
		return fmt.Errorf("unrecognized webhook payload for provider kind %s", providerKind)
	}

	for i := range events {
		if err := s.handleEvent(ctx, &events[i]); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"type":  string(events[i].Type),
				"error": err.Error(),
			}).Error("Failed to reconcile webhook event")
		}
	}
	return nil
}

// ListEvents reads the event log for the admin surface, filtered by
// subtask or by event type.
func (s *WebhookService) ListEvents(ctx context.Context, params domain.EventListParams) ([]*domain.WebhookEvent, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	if params.SubTaskID != "" {
		events, err := s.eventRepo.ListBySubTask(ctx, params.SubTaskID, params.Limit, params.Offset)
		if err != nil {
			return nil, 0, err
		}
		return events, len(events), nil
	}

	events, err := s.eventRepo.ListByType(ctx, params.Type, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.eventRepo.CountByType(ctx, params.Type)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// decodeInboundEvents normalizes a provider payload into tagged events.
// Providers wrap events differently (bare object, "events" array, bare
// array) and name fields differently; everything is folded into
// domain.InboundEvent here so downstream code never re-sniffs payload
// shape.
func decodeInboundEvents(providerKind string, rawPayload []byte) []domain.InboundEvent {
	if !gjson.ValidBytes(rawPayload) {
		return nil
	}
	root := gjson.ParseBytes(rawPayload)

	var items []gjson.Result
	switch {
	case root.IsArray():
		items = root.Array()
	case root.Get("events").IsArray():
		items = root.Get("events").Array()
	default:
		items = []gjson.Result{root}
	}

	var events []domain.InboundEvent
	for _, item := range items {
		eventType := normalizeEventType(firstString(item, "event", "type", "event_type"))
		if !eventType.Known() {
			continue
		}
		events = append(events, domain.InboundEvent{
			Type:              eventType,
			ProviderKind:      providerKind,
			CorrelationID:     firstString(item, "correlation_id", "metadata.correlation_id", "custom_args.correlation_id"),
			ProviderMessageID: firstString(item, "message_id", "provider_message_id", "smtp_id"),
			RecipientEmail:    firstString(item, "email", "recipient", "recipient_email"),
			SenderEmail:       firstString(item, "sender_email", "to", "from_email"),
			EventID:           firstString(item, "event_id", "id"),
			Timestamp:         parseEventTimestamp(item),
			RawPayload:        item.Raw,
		})
	}
	return events
}

func firstString(item gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := item.Get(path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// normalizeEventType folds the provider vocabulary onto the engine's.
func normalizeEventType(raw string) domain.EventType {
	switch raw {
	case "target", "targeted":
		return domain.EventTarget
	case "sent", "send", "processed":
		return domain.EventSent
	case "delivered", "delivery":
		return domain.EventDelivered
	case "invalid_email", "bounce", "hard_bounce", "dropped":
		return domain.EventInvalidEmail
	case "soft_bounce", "deferred", "blocked":
		return domain.EventSoftBounce
	case "open", "opened", "unique_opened":
		return domain.EventOpen
	case "click", "clicked":
		return domain.EventClick
	case "unsubscribe", "unsubscribed":
		return domain.EventUnsubscribe
	case "report_spam", "spam", "spamreport", "complaint":
		return domain.EventReportSpam
	case "reply", "inbound":
		return domain.EventReply
	}
	return domain.EventType(raw)
}

func parseEventTimestamp(item gjson.Result) time.Time {
	v := item.Get("timestamp")
	if !v.Exists() {
		v = item.Get("date")
	}
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0).UTC()
	case gjson.String:
		if ts, err := time.Parse(time.RFC3339, v.String()); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

func (s *WebhookService) handleEvent(ctx context.Context, event *domain.InboundEvent) error {
	if event.Type == domain.EventReply {
		return s.handleReply(ctx, event)
	}

	subTask := s.resolveSubTask(ctx, event)
	if subTask == nil {
		s.logger.WithFields(map[string]interface{}{
			"type":      string(event.Type),
			"recipient": event.RecipientEmail,
		}).Debug("Webhook event could not be resolved to a subtask")
		return s.storeEvent(ctx, event, nil, false)
	}

	applied, err := s.applyEvent(ctx, event, subTask)
	if err != nil {
		return err
	}
	if storeErr := s.storeEvent(ctx, event, subTask, applied); storeErr != nil {
		return storeErr
	}

	if applied {
		if _, err := s.taskRepo.RecomputeStats(ctx, subTask.TaskID); err != nil {
			return err
		}
	}
	return nil
}

// resolveSubTask walks the fallback chain in strict priority order:
// the correlation id we put on the send, then the provider's message
// id, then the most recent send to the recipient address.
func (s *WebhookService) resolveSubTask(ctx context.Context, event *domain.InboundEvent) *domain.SubTask {
	if event.CorrelationID != "" {
		if subTask, err := s.subTaskRepo.Get(ctx, event.CorrelationID); err == nil {
			return subTask
		}
	}
	if event.ProviderMessageID != "" {
		if subTask, err := s.subTaskRepo.GetByProviderMessageID(ctx, event.ProviderMessageID); err == nil {
			return subTask
		}
	}
	if event.RecipientEmail != "" {
		if subTask, err := s.subTaskRepo.GetLatestSentToEmail(ctx, event.RecipientEmail); err == nil {
			return subTask
		}
	}
	return nil
}

// applyEvent mutates the subtask (and contact) for one resolved event.
// The monotonic transition guard makes replays and out-of-order
// deliveries no-ops; applied reports whether this event moved anything.
func (s *WebhookService) applyEvent(ctx context.Context, event *domain.InboundEvent, subTask *domain.SubTask) (bool, error) {
	at := event.Timestamp

	switch event.Type {
	case domain.EventTarget, domain.EventSent:
		// Send confirmations: the dispatcher already recorded the sent
		// milestone, so these are log-only.
		return false, nil

	case domain.EventDelivered:
		return s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusDelivered, at)

	case domain.EventInvalidEmail:
		applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusBounced, at)
		if err != nil {
			return false, err
		}
		if applied {
			if err := s.contactRepo.MarkInvalidEmail(ctx, subTask.ContactID); err != nil {
				return applied, err
			}
		}
		return applied, nil

	case domain.EventSoftBounce:
		// Transient: the address stays valid, the subtask is bounced.
		return s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusBounced, at)

	case domain.EventOpen:
		first, err := s.subTaskRepo.RecordOpen(ctx, subTask.ID, at)
		if err != nil {
			return false, err
		}
		applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusOpened, at)
		return first || applied, err

	case domain.EventClick:
		link := gjson.Get(event.RawPayload, "url").String()
		first, err := s.subTaskRepo.RecordClick(ctx, subTask.ID, link, at)
		if err != nil {
			return false, err
		}
		applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusClicked, at)
		return first || applied, err

	case domain.EventUnsubscribe:
		applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusUnsubscribed, at)
		if err != nil {
			return false, err
		}
		if applied {
			if err := s.contactRepo.MarkSuppressed(ctx, subTask.ContactID); err != nil {
				return applied, err
			}
		}
		return applied, nil

	case domain.EventReportSpam:
		applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusComplained, at)
		if err != nil {
			return false, err
		}
		if applied {
			if err := s.contactRepo.MarkSuppressed(ctx, subTask.ContactID); err != nil {
				return applied, err
			}
		}
		return applied, nil
	}

	return false, nil
}

// handleReply routes a reply-class event into its conversation. Replies
// carry no send correlation at all; the sender address they were
// addressed to identifies the user.
func (s *WebhookService) handleReply(ctx context.Context, event *domain.InboundEvent) error {
	if event.SenderEmail == "" || event.RecipientEmail == "" {
		return s.storeEvent(ctx, event, nil, false)
	}

	binding, err := s.providerRepo.GetBindingBySender(ctx, event.SenderEmail)
	if err != nil {
		s.logger.WithField("sender", event.SenderEmail).
			Debug("Reply event with unknown sender address")
		return s.storeEvent(ctx, event, nil, false)
	}

	if _, err := s.conversationRepo.FindOrCreate(ctx, binding.UserID, event.RecipientEmail, event.Timestamp); err != nil {
		return err
	}

	// Best effort: tie the reply to the send that triggered it.
	subTask := s.resolveSubTask(ctx, event)
	if err := s.storeEventWithUser(ctx, event, subTask, binding.UserID, true); err != nil {
		return err
	}
	return nil
}

func (s *WebhookService) storeEvent(ctx context.Context, event *domain.InboundEvent, subTask *domain.SubTask, applied bool) error {
	return s.storeEventWithUser(ctx, event, subTask, "", applied)
}

func (s *WebhookService) storeEventWithUser(ctx context.Context, event *domain.InboundEvent, subTask *domain.SubTask, userID string, applied bool) error {
	row := &domain.WebhookEvent{
		ID:                uuid.New().String(),
		Type:              event.Type,
		ProviderKind:      event.ProviderKind,
		EventID:           event.EventID,
		RecipientEmail:    event.RecipientEmail,
		ProviderMessageID: event.ProviderMessageID,
		Applied:           applied,
		Timestamp:         event.Timestamp,
		RawPayload:        event.RawPayload,
	}
	if subTask != nil {
		row.SubTaskID = &subTask.ID
		row.TaskID = &subTask.TaskID
		row.ContactID = &subTask.ContactID
	}
	if userID != "" {
		row.UserID = &userID
	}
	return s.eventRepo.Store(ctx, row)
}
