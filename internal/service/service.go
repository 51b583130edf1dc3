// Package service implements the engine's use cases on top of the
// domain repositories: queue generation, dispatch, tracking and
// webhook reconciliation.
package service

import (
	"context"

	"github.com/mailfleet/mailfleet/internal/service/scheduler"
)

//go:generate mockgen -destination mocks/mock_queue_registry.go -package mocks -source service.go QueueRegistry

// QueueRegistry is the scheduler surface the services drive. Satisfied
// by scheduler.Scheduler; mocked in tests.
type QueueRegistry interface {
	RegisterQueue(ctx context.Context, params scheduler.RegisterQueueParams) error
	Pause(ctx context.Context, taskID string) error
	Resume(ctx context.Context, taskID string) error
	Remove(ctx context.Context, taskID string) error
	Append(ctx context.Context, taskID, subTaskID string) error
}
