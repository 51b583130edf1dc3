package service

import (
	"context"
	"net/url"
	"time"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// TrackingService handles first-party engagement hits: open pixel
// requests and tracked link clicks. Both paths are idempotent per
// subtask; only the first hit moves status and re-aggregates the task.
type TrackingService struct {
	subTaskRepo domain.SubTaskRepository
	taskRepo    domain.TaskRepository
	logger      logger.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(
	subTaskRepo domain.SubTaskRepository,
	taskRepo domain.TaskRepository,
	log logger.Logger,
) *TrackingService {
	return &TrackingService{
		subTaskRepo: subTaskRepo,
		taskRepo:    taskRepo,
		logger:      log,
	}
}

// HandleOpen records an open for a tracking token. It never fails from
// the caller's point of view: the handler always serves the pixel, and
// an unknown token or storage hiccup is only logged.
func (s *TrackingService) HandleOpen(ctx context.Context, token string, at time.Time) {
	subTask, err := s.subTaskRepo.GetByTrackingID(ctx, token)
	if err != nil {
		s.logger.WithField("token", token).Debug("Open hit with unknown tracking token")
		return
	}

	first, err := s.subTaskRepo.RecordOpen(ctx, subTask.ID, at)
	if err != nil {
		s.logger.WithField("subtask_id", subTask.ID).
			Error("Failed to record open: " + err.Error())
		return
	}
	if !first {
		return
	}

	// RecordOpen already moved a sent or delivered row to opened, so
	// the guarded transition usually matches nothing; it only catches
	// rows that arrived through another status. The first hit
	// re-aggregates either way.
	applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusOpened, at)
	if err != nil {
		s.logger.WithField("subtask_id", subTask.ID).
			Error("Failed to apply open transition: " + err.Error())
	}
	if first || applied {
		s.recompute(ctx, subTask.TaskID)
	}
}

// HandleClick records a click and returns the original URL to redirect
// to. An unknown token or a missing/invalid destination yields
// ErrLinkNotFound; engagement recording failures do not block the
// redirect.
func (s *TrackingService) HandleClick(ctx context.Context, token, rawURL string, at time.Time) (string, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		return "", domain.ErrLinkNotFound
	}

	subTask, err := s.subTaskRepo.GetByTrackingID(ctx, token)
	if err != nil {
		return "", domain.ErrLinkNotFound
	}

	first, err := s.subTaskRepo.RecordClick(ctx, subTask.ID, rawURL, at)
	if err != nil {
		s.logger.WithField("subtask_id", subTask.ID).
			Error("Failed to record click: " + err.Error())
		return rawURL, nil
	}
	if !first {
		return rawURL, nil
	}

	// A click implies the message was opened even if the pixel never
	// fired. RecordClick already set opened_at and moved the status, so
	// the transition matches nothing on the common path; the first hit
	// still re-aggregates.
	applied, err := s.subTaskRepo.Transition(ctx, subTask.ID, domain.SubTaskStatusClicked, at)
	if err != nil {
		s.logger.WithField("subtask_id", subTask.ID).
			Error("Failed to apply click transition: " + err.Error())
	}
	if first || applied {
		s.recompute(ctx, subTask.TaskID)
	}

	return rawURL, nil
}

func (s *TrackingService) recompute(ctx context.Context, taskID string) {
	if _, err := s.taskRepo.RecomputeStats(ctx, taskID); err != nil {
		s.logger.WithField("task_id", taskID).
			Error("Failed to recompute task stats: " + err.Error())
	}
}
