package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// TaskService drives the task lifecycle: queue generation with quota
// reservation, pause/resume and subtask rescheduling.
type TaskService struct {
	taskRepo     domain.TaskRepository
	subTaskRepo  domain.SubTaskRepository
	contactRepo  domain.ContactRepository
	templateRepo domain.TemplateRepository
	providerRepo domain.ProviderRepository
	quotaRepo    domain.QuotaRepository
	registry     QueueRegistry
	logger       logger.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo domain.TaskRepository,
	subTaskRepo domain.SubTaskRepository,
	contactRepo domain.ContactRepository,
	templateRepo domain.TemplateRepository,
	providerRepo domain.ProviderRepository,
	quotaRepo domain.QuotaRepository,
	registry QueueRegistry,
	log logger.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		subTaskRepo:  subTaskRepo,
		contactRepo:  contactRepo,
		templateRepo: templateRepo,
		providerRepo: providerRepo,
		quotaRepo:    quotaRepo,
		registry:     registry,
		logger:       log,
	}
}

// GetTask retrieves a task with its current aggregate
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.taskRepo.Get(ctx, id)
}

// generationConcurrency bounds how many due tasks expand at once. Each
// generation holds a quota row lock, so unbounded fan-out buys nothing.
const generationConcurrency = 4

// ProcessDueTasks expands every scheduled task whose time has elapsed.
// Generation failures are per-task: one bad task never blocks the rest.
func (s *TaskService) ProcessDueTasks(ctx context.Context, limit int) error {
	tasks, err := s.taskRepo.ListDue(ctx, time.Now().UTC(), limit)
	if err != nil {
		return fmt.Errorf("failed to list due tasks: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationConcurrency)
	for _, task := range tasks {
		g.Go(func() error {
			if err := s.GenerateQueue(gctx, task.ID); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"task_id": task.ID,
					"error":   err.Error(),
				}).Error("Failed to generate queue for due task")
			}
			return nil
		})
	}
	return g.Wait()
}

// Recover rebuilds scheduler state from storage after a restart.
// Subtasks stranded mid-dispatch are failed so an explicit reschedule
// can pick them up, and every unsettled task either gets its queue
// re-registered from its pending subtasks or is settled outright.
func (s *TaskService) Recover(ctx context.Context) error {
	stale, err := s.subTaskRepo.FailStale(ctx, "dispatch interrupted by restart", time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to fail stale subtasks: %w", err)
	}
	if stale > 0 {
		s.logger.WithField("count", stale).Warn("Failed subtasks stranded mid-dispatch")
	}

	tasks, err := s.taskRepo.ListUnsettled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unsettled tasks: %w", err)
	}
	for _, task := range tasks {
		if err := s.recoverTask(ctx, task); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"task_id": task.ID,
				"error":   err.Error(),
			}).Error("Failed to recover task")
		}
	}
	return nil
}

// recoverTask re-registers one unsettled task's queue, or settles the
// task when nothing is left to dispatch.
func (s *TaskService) recoverTask(ctx context.Context, task *domain.Task) error {
	stats, err := s.taskRepo.RecomputeStats(ctx, task.ID)
	if err != nil {
		return err
	}
	if !stats.InFlight() {
		final := domain.TaskStatusCompleted
		if stats.TotalSent == 0 {
			final = domain.TaskStatusFailed
		}
		return s.taskRepo.UpdateStatus(ctx, task.ID, final)
	}

	subTaskIDs, err := s.subTaskRepo.ListIDsByTask(ctx, task.ID)
	if err != nil {
		return err
	}
	providers, err := s.providerRepo.ListAvailableForUser(ctx, task.UserID)
	if err != nil {
		return err
	}
	providerIDs := make([]string, len(providers))
	for i, p := range providers {
		providerIDs[i] = p.ID
	}

	if err := s.registry.RegisterQueue(ctx, scheduler.RegisterQueueParams{
		TaskID:      task.ID,
		UserID:      task.UserID,
		SubTaskIDs:  subTaskIDs,
		ProviderIDs: providerIDs,
	}); err != nil {
		return err
	}
	if task.Status == domain.TaskStatusPaused {
		return s.registry.Pause(ctx, task.ID)
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id":    task.ID,
		"recipients": len(subTaskIDs),
	}).Info("Task queue rebuilt after restart")
	return nil
}

// GenerateQueue expands a due task into its subtask queue. Contact
// resolution, quota deduction, ledger write, subtask creation and the
// scheduled -> queued flip are one transaction: any failure leaves the
// task untouched and the quota balance intact.
func (s *TaskService) GenerateQueue(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.DueForGeneration(time.Now().UTC()) {
		return fmt.Errorf("task %s is not due for generation (status %s)", taskID, task.Status)
	}

	contacts, err := s.contactRepo.GetByIDs(ctx, task.ContactIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve contacts: %w", err)
	}
	if len(contacts) == 0 {
		if statusErr := s.taskRepo.UpdateStatus(ctx, taskID, domain.TaskStatusFailed); statusErr != nil {
			s.logger.WithField("task_id", taskID).
				Error("Failed to mark empty task failed: " + statusErr.Error())
		}
		return domain.ErrNoRecipients
	}

	balance, err := s.quotaRepo.GetBalance(ctx, task.UserID)
	if err != nil {
		return fmt.Errorf("failed to read quota balance: %w", err)
	}
	if balance < len(contacts) {
		return domain.ErrInsufficientQuota
	}

	providers, err := s.providerRepo.ListAvailableForUser(ctx, task.UserID)
	if err != nil {
		return fmt.Errorf("failed to list providers: %w", err)
	}
	if len(providers) == 0 {
		return domain.ErrNoAvailableProvider
	}

	templates, err := s.templateRepo.GetByIDs(ctx, task.TemplateIDs)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	for _, id := range task.TemplateIDs {
		if templates[id] == nil {
			return &domain.ErrTemplateNotFound{ID: id}
		}
	}

	subTasks := make([]*domain.SubTask, len(contacts))
	for i, contact := range contacts {
		templateID := s.pickTemplate(task, i)
		subTasks[i] = domain.NewSubTask(task.ID, contact.ID, templateID)
	}

	commit := &domain.GenerationCommit{
		Task:     task,
		SubTasks: subTasks,
		LedgerEntry: &domain.QuotaLedgerEntry{
			ID:        uuid.New().String(),
			UserID:    task.UserID,
			TaskID:    &task.ID,
			Delta:     -len(subTasks),
			Reason:    domain.QuotaReasonGeneration,
			CreatedAt: time.Now().UTC(),
		},
	}
	if err := s.taskRepo.CommitGeneration(ctx, commit); err != nil {
		return err
	}

	providerIDs := make([]string, len(providers))
	for i, p := range providers {
		providerIDs[i] = p.ID
	}
	subTaskIDs := make([]string, len(subTasks))
	for i, st := range subTasks {
		subTaskIDs[i] = st.ID
	}

	if err := s.registry.RegisterQueue(ctx, scheduler.RegisterQueueParams{
		TaskID:      task.ID,
		UserID:      task.UserID,
		SubTaskIDs:  subTaskIDs,
		ProviderIDs: providerIDs,
	}); err != nil {
		return fmt.Errorf("failed to register queue: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id":    task.ID,
		"user_id":    task.UserID,
		"recipients": len(subTasks),
	}).Info("Task expanded into subtask queue")
	return nil
}

// pickTemplate applies the task's template selection policy for the
// i-th recipient.
func (s *TaskService) pickTemplate(task *domain.Task, i int) string {
	if len(task.TemplateIDs) == 1 {
		return task.TemplateIDs[0]
	}
	switch task.TemplateSelection {
	case domain.TemplateSelectionRoundRobin:
		return task.TemplateIDs[i%len(task.TemplateIDs)]
	default:
		return task.TemplateIDs[rand.Intn(len(task.TemplateIDs))]
	}
}

// PauseTask stops the task's queue from being offered to pollers.
// Already-dispatched subtasks are unaffected.
func (s *TaskService) PauseTask(ctx context.Context, req *domain.PauseTaskRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	task, err := s.taskRepo.Get(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if task.Status != domain.TaskStatusQueued && task.Status != domain.TaskStatusSending {
		return fmt.Errorf("task %s cannot be paused from status %s", task.ID, task.Status)
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, domain.TaskStatusPaused); err != nil {
		return err
	}
	return s.registry.Pause(ctx, task.ID)
}

// ResumeTask re-activates a paused queue at its saved cursor position.
func (s *TaskService) ResumeTask(ctx context.Context, req *domain.ResumeTaskRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	task, err := s.taskRepo.Get(ctx, req.TaskID)
	if err != nil {
		return err
	}
	if task.Status != domain.TaskStatusPaused {
		return fmt.Errorf("task %s is not paused (status %s)", task.ID, task.Status)
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, domain.TaskStatusSending); err != nil {
		return err
	}
	return s.registry.Resume(ctx, task.ID)
}

// RescheduleSubTask resets a failed subtask to pending and re-appends it
// to its task's queue at a fresh cursor position.
func (s *TaskService) RescheduleSubTask(ctx context.Context, req *domain.RescheduleSubTaskRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	subTask, err := s.subTaskRepo.Get(ctx, req.SubTaskID)
	if err != nil {
		return err
	}
	if err := s.subTaskRepo.Requeue(ctx, subTask.ID); err != nil {
		return err
	}

	// A completed or failed task regains in-flight work, reopen it.
	task, err := s.taskRepo.Get(ctx, subTask.TaskID)
	if err != nil {
		return err
	}
	if task.Status == domain.TaskStatusCompleted || task.Status == domain.TaskStatusFailed {
		if err := s.taskRepo.UpdateStatus(ctx, task.ID, domain.TaskStatusSending); err != nil {
			return err
		}
		providers, err := s.providerRepo.ListAvailableForUser(ctx, task.UserID)
		if err != nil {
			return err
		}
		providerIDs := make([]string, len(providers))
		for i, p := range providers {
			providerIDs[i] = p.ID
		}
		if err := s.registry.RegisterQueue(ctx, scheduler.RegisterQueueParams{
			TaskID:      task.ID,
			UserID:      task.UserID,
			ProviderIDs: providerIDs,
		}); err != nil {
			return err
		}
	}

	if err := s.registry.Append(ctx, subTask.TaskID, subTask.ID); err != nil {
		return err
	}

	if _, err := s.taskRepo.RecomputeStats(ctx, subTask.TaskID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"subtask_id": subTask.ID,
		"task_id":    subTask.TaskID,
	}).Info("Subtask rescheduled")
	return nil
}

// ListSubTasks retrieves a filtered page of subtasks with the total count
func (s *TaskService) ListSubTasks(ctx context.Context, params domain.SubTaskListParams) ([]*domain.SubTask, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	return s.subTaskRepo.List(ctx, params)
}
