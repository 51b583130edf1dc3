package domain

import (
	"errors"
	"fmt"
)

// Generation-time errors. All of them abort the whole generation
// transaction; nothing is partially created.
var (
	// ErrNoRecipients is returned when a task resolves to an empty contact list
	ErrNoRecipients = errors.New("no recipients resolved for task")

	// ErrInsufficientQuota is returned when the owner's remaining quota is
	// smaller than the resolved recipient count
	ErrInsufficientQuota = errors.New("insufficient send quota")

	// ErrNoAvailableProvider is returned when no enabled, non-frozen,
	// non-exhausted provider is bound to the task owner
	ErrNoAvailableProvider = errors.New("no available provider bound to user")
)

// ErrProviderUnavailable is returned by allocation when the provider is
// disabled, frozen or has exhausted its daily quota. The poller
// self-suspends on it; it is never surfaced per-subtask.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrLinkNotFound is returned when a click token cannot be resolved back
// to an original URL.
var ErrLinkNotFound = errors.New("tracked link not found")

// ErrTaskNotFound is an error type for when a task is not found
type ErrTaskNotFound struct {
	ID string
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// ErrSubTaskNotFound is an error type for when a subtask is not found
type ErrSubTaskNotFound struct {
	ID string
}

func (e *ErrSubTaskNotFound) Error() string {
	return fmt.Sprintf("subtask not found: %s", e.ID)
}

// ErrContactNotFound is an error type for when a contact is not found
type ErrContactNotFound struct {
	ID string
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact not found: %s", e.ID)
}

// ErrTemplateNotFound is an error type for when a template is not found
type ErrTemplateNotFound struct {
	ID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}

// ErrProviderNotFound is an error type for when a provider is not found
type ErrProviderNotFound struct {
	ID string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider not found: %s", e.ID)
}

// DispatchError wraps a transient provider/network failure during a send.
// The affected subtask is marked failed and requires an explicit
// reschedule; sibling subtasks and the poller are unaffected.
type DispatchError struct {
	ProviderID string
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via provider %s failed: %v", e.ProviderID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ErrInvalidTransition is returned when a subtask status change would
// move backward through the lifecycle graph.
type ErrInvalidTransition struct {
	From SubTaskStatus
	To   SubTaskStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid subtask transition: %s -> %s", e.From, e.To)
}
