package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	"github.com/mailfleet/mailfleet/pkg/logger"
	"github.com/mailfleet/mailfleet/pkg/mailer"
)

// MailerFactory builds a transport for a provider's connection settings.
// Indirection point for tests; production wiring uses mailer.New.
type MailerFactory func(kind mailer.Kind, config *mailer.Config) (mailer.Mailer, error)

// DispatchService executes one selected subtask end to end: allocate
// provider capacity, render, hand to the provider and record the
// outcome. A failure here is local to the subtask; the poller that
// called Dispatch keeps ticking.
type DispatchService struct {
	taskRepo     domain.TaskRepository
	subTaskRepo  domain.SubTaskRepository
	contactRepo  domain.ContactRepository
	templateRepo domain.TemplateRepository
	providerRepo domain.ProviderRepository
	registry     QueueRegistry
	renderer     *MessageRenderer
	newMailer    MailerFactory
	logger       logger.Logger
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	taskRepo domain.TaskRepository,
	subTaskRepo domain.SubTaskRepository,
	contactRepo domain.ContactRepository,
	templateRepo domain.TemplateRepository,
	providerRepo domain.ProviderRepository,
	registry QueueRegistry,
	renderer *MessageRenderer,
	newMailer MailerFactory,
	log logger.Logger,
) *DispatchService {
	if newMailer == nil {
		newMailer = mailer.New
	}
	return &DispatchService{
		taskRepo:     taskRepo,
		subTaskRepo:  subTaskRepo,
		contactRepo:  contactRepo,
		templateRepo: templateRepo,
		providerRepo: providerRepo,
		registry:     registry,
		renderer:     renderer,
		newMailer:    newMailer,
		logger:       log,
	}
}

// Dispatch processes one scheduler selection on the given provider.
// ErrProviderUnavailable propagates so the poller can suspend itself;
// every other failure is recorded on the subtask and swallowed.
func (s *DispatchService) Dispatch(ctx context.Context, sel scheduler.Selection, providerID string) error {
	provider, err := s.providerRepo.Get(ctx, providerID)
	if err != nil {
		return err
	}

	binding, err := s.providerRepo.GetBinding(ctx, sel.UserID, providerID)
	if err != nil {
		return err
	}

	// Capacity reservation: conditional used_quota increment plus the
	// pending -> allocated flip, one transaction.
	if err := s.subTaskRepo.Allocate(ctx, sel.SubTaskID, providerID, binding.SenderAddress); err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return err
		}
		return fmt.Errorf("failed to allocate subtask %s: %w", sel.SubTaskID, err)
	}

	s.markTaskSending(ctx, sel.TaskID)

	subTask, err := s.subTaskRepo.Get(ctx, sel.SubTaskID)
	if err != nil {
		return err
	}

	// The binding can carry its own daily limit, tighter than the
	// provider's quota. A subtask over the limit fails and stays
	// reschedulable for the next day.
	if binding.DailyLimit > 0 {
		since := time.Now().UTC().Truncate(24 * time.Hour)
		sentToday, err := s.subTaskRepo.CountSentBySender(ctx, binding.SenderAddress, since)
		if err != nil {
			return err
		}
		if sentToday >= binding.DailyLimit {
			return s.fail(ctx, subTask,
				fmt.Errorf("sender %s reached its daily limit of %d", binding.SenderAddress, binding.DailyLimit))
		}
	}

	contact, err := s.contactRepo.Get(ctx, subTask.ContactID)
	if err != nil {
		return s.fail(ctx, subTask, fmt.Errorf("contact lookup: %w", err))
	}
	if contact.InvalidEmail || contact.Suppressed {
		return s.fail(ctx, subTask, fmt.Errorf("contact %s is no longer targetable", contact.ID))
	}

	template, err := s.templateRepo.Get(ctx, subTask.TemplateID)
	if err != nil {
		return s.fail(ctx, subTask, fmt.Errorf("template lookup: %w", err))
	}

	message, err := s.renderer.Render(template, contact, subTask.TrackingID)
	if err != nil {
		return s.fail(ctx, subTask, err)
	}

	if err := s.subTaskRepo.MarkSending(ctx, subTask.ID, message.Subject, message.HTMLBody); err != nil {
		return err
	}

	result, err := s.send(ctx, provider, binding, contact, message, subTask)
	if err != nil {
		return s.fail(ctx, subTask, &domain.DispatchError{ProviderID: providerID, Err: err})
	}

	if err := s.subTaskRepo.MarkSent(ctx, subTask.ID, result.ProviderMessageID, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"subtask_id":  subTask.ID,
		"task_id":     subTask.TaskID,
		"provider_id": providerID,
	}).Debug("Subtask dispatched")

	return s.settleTask(ctx, sel.TaskID)
}

func (s *DispatchService) send(
	ctx context.Context,
	provider *domain.Provider,
	binding *domain.UserProvider,
	contact *domain.Contact,
	message *domain.RenderedMessage,
	subTask *domain.SubTask,
) (*mailer.SendResult, error) {
	m, err := s.newMailer(mailer.Kind(provider.Kind), &mailer.Config{
		Host:     provider.Settings.Host,
		Port:     provider.Settings.Port,
		Username: provider.Settings.Username,
		Password: provider.Settings.Password,
		UseTLS:   provider.Settings.UseTLS,
		Endpoint: provider.Settings.Endpoint,
		APIKey:   provider.Settings.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return m.Send(ctx, mailer.SendRequest{
		FromAddress:   binding.SenderAddress,
		To:            contact.Email,
		Subject:       message.Subject,
		HTMLBody:      message.HTMLBody,
		TextBody:      message.TextBody,
		CorrelationID: subTask.ID,
		TrackingID:    subTask.TrackingID,
	})
}

// fail records a per-subtask failure and settles the task. The error is
// not propagated: sibling subtasks and the poller continue.
func (s *DispatchService) fail(ctx context.Context, subTask *domain.SubTask, cause error) error {
	s.logger.WithFields(map[string]interface{}{
		"subtask_id": subTask.ID,
		"task_id":    subTask.TaskID,
		"error":      cause.Error(),
	}).Error("Subtask dispatch failed")

	if err := s.subTaskRepo.MarkFailed(ctx, subTask.ID, cause.Error(), time.Now().UTC()); err != nil {
		return err
	}
	return s.settleTask(ctx, subTask.TaskID)
}

func (s *DispatchService) markTaskSending(ctx context.Context, taskID string) {
	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil || task.Status != domain.TaskStatusQueued {
		return
	}
	if err := s.taskRepo.UpdateStatus(ctx, taskID, domain.TaskStatusSending); err != nil {
		s.logger.WithField("task_id", taskID).
			Error("Failed to flip task to sending: " + err.Error())
	}
}

// settleTask recomputes the aggregate and, when no subtask is left in
// flight, finalizes the task: completed if anything went out, failed if
// every single subtask failed.
func (s *DispatchService) settleTask(ctx context.Context, taskID string) error {
	stats, err := s.taskRepo.RecomputeStats(ctx, taskID)
	if err != nil {
		return err
	}
	if stats.InFlight() {
		return nil
	}

	final := domain.TaskStatusCompleted
	if stats.TotalSent == 0 {
		final = domain.TaskStatusFailed
	}
	if err := s.taskRepo.UpdateStatus(ctx, taskID, final); err != nil {
		return err
	}
	if err := s.registry.Remove(ctx, taskID); err != nil && !errors.Is(err, scheduler.ErrNotRunning) {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id": taskID,
		"status":  string(final),
	}).Info("Task finished")
	return nil
}
