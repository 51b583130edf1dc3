// Package scheduler implements the fair, rate-limited allocation of
// pending subtasks to provider capacity: an explicit scheduler object
// owning the queue registry with single-goroutine ownership, plus one
// poller per enabled provider asking it for work.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/mailfleet/mailfleet/pkg/logger"
)

// ErrNotRunning is returned when an operation reaches a stopped scheduler.
var ErrNotRunning = errors.New("scheduler is not running")

// Selection is one subtask picked for a provider tick.
type Selection struct {
	SubTaskID string
	TaskID    string
	UserID    string
}

// RegisterQueueParams registers a task's subtask-id list as a new active
// queue. ProviderIDs are the providers the owning user is bound to;
// the queue is only ever offered to those.
type RegisterQueueParams struct {
	TaskID      string
	UserID      string
	SubTaskIDs  []string
	ProviderIDs []string
}

// QueueSnapshot describes one queue for the status surface.
type QueueSnapshot struct {
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	Length    int    `json:"length"`
	Cursor    int    `json:"cursor"`
	Paused    bool   `json:"paused"`
	Exhausted bool   `json:"exhausted"`
}

// queue is the per-task cursor state. The cursor only moves forward: a
// slot is visited at most once by the normal poll path. Pausing keeps
// the cursor; resuming continues exactly where polling left off.
type queue struct {
	taskID     string
	userID     string
	subtaskIDs []string
	cursor     int
	paused     bool
	providers  map[string]struct{}
}

func (q *queue) exhausted() bool {
	return q.cursor >= len(q.subtaskIDs)
}

func (q *queue) eligible(providerID string) bool {
	if q.paused || q.exhausted() {
		return false
	}
	_, bound := q.providers[providerID]
	return bound
}

// schedState is owned exclusively by the run loop goroutine. All access
// goes through the ops channel; there is no shared-map locking.
type schedState struct {
	queues map[string]*queue // task id -> queue

	// Fairness rings: rotation across users first, then across the
	// selected user's active tasks, so one user's many tasks cannot
	// starve another user.
	userRing []string
	userIdx  int
	taskRing map[string][]string // user id -> task ids
	taskIdx  map[string]int
}

// Scheduler owns the queue registry. Pollers and the admin surface talk
// to it through message passing; the registry itself never leaves the
// run loop goroutine.
type Scheduler struct {
	ops    chan func(*schedState)
	logger logger.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		ops:    make(chan func(*schedState)),
		logger: log,
	}
}

// Start launches the registry-owning goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(runCtx, s.done)
	s.logger.Info("Scheduler started")
	return nil
}

// Stop shuts the run loop down and waits for it. Provider pollers must
// be stopped first by their manager.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the run loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	state := &schedState{
		queues:   make(map[string]*queue),
		taskRing: make(map[string][]string),
		taskIdx:  make(map[string]int),
	}

	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.ops:
			op(state)
		}
	}
}

// do runs one operation on the registry goroutine and waits for it.
func (s *Scheduler) do(ctx context.Context, op func(*schedState)) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	done := s.done
	s.mu.Unlock()

	wrapped := make(chan struct{})
	select {
	case s.ops <- func(st *schedState) {
		op(st)
		close(wrapped)
	}:
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-wrapped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterQueue adds a task's queue with cursor 0 and active status.
// Registering an already-known task replaces its queue.
func (s *Scheduler) RegisterQueue(ctx context.Context, params RegisterQueueParams) error {
	providers := make(map[string]struct{}, len(params.ProviderIDs))
	for _, id := range params.ProviderIDs {
		providers[id] = struct{}{}
	}

	return s.do(ctx, func(st *schedState) {
		if _, known := st.queues[params.TaskID]; !known {
			st.addToRings(params.UserID, params.TaskID)
		}
		st.queues[params.TaskID] = &queue{
			taskID:     params.TaskID,
			userID:     params.UserID,
			subtaskIDs: append([]string(nil), params.SubTaskIDs...),
			providers:  providers,
		}
	})
}

// Pause marks a queue paused without discarding its cursor.
func (s *Scheduler) Pause(ctx context.Context, taskID string) error {
	return s.do(ctx, func(st *schedState) {
		if q, ok := st.queues[taskID]; ok {
			q.paused = true
		}
	})
}

// Resume reactivates a paused queue at its saved cursor.
func (s *Scheduler) Resume(ctx context.Context, taskID string) error {
	return s.do(ctx, func(st *schedState) {
		if q, ok := st.queues[taskID]; ok {
			q.paused = false
		}
	})
}

// Remove drops a finished or cancelled task's queue from the registry.
func (s *Scheduler) Remove(ctx context.Context, taskID string) error {
	return s.do(ctx, func(st *schedState) {
		q, ok := st.queues[taskID]
		if !ok {
			return
		}
		delete(st.queues, taskID)
		st.removeFromRings(q.userID, taskID)
	})
}

// Append adds a rescheduled subtask at a fresh cursor position (the end
// of its task's queue).
func (s *Scheduler) Append(ctx context.Context, taskID, subTaskID string) error {
	return s.do(ctx, func(st *schedState) {
		if q, ok := st.queues[taskID]; ok {
			q.subtaskIDs = append(q.subtaskIDs, subTaskID)
		}
	})
}

// Next picks the next eligible subtask for a provider tick, or ok=false
// when no queue has work for that provider. The user ring rotates first,
// then the chosen user's task ring, and the winning queue's cursor
// advances unconditionally.
func (s *Scheduler) Next(ctx context.Context, providerID string) (Selection, bool, error) {
	var sel Selection
	var found bool

	err := s.do(ctx, func(st *schedState) {
		sel, found = st.next(providerID)
	})
	return sel, found, err
}

// Snapshot returns the current queue registry for the status surface.
func (s *Scheduler) Snapshot(ctx context.Context) ([]QueueSnapshot, error) {
	var snaps []QueueSnapshot
	err := s.do(ctx, func(st *schedState) {
		for _, q := range st.queues {
			snaps = append(snaps, QueueSnapshot{
				TaskID:    q.taskID,
				UserID:    q.userID,
				Length:    len(q.subtaskIDs),
				Cursor:    q.cursor,
				Paused:    q.paused,
				Exhausted: q.exhausted(),
			})
		}
	})
	return snaps, err
}

func (st *schedState) next(providerID string) (Selection, bool) {
	users := len(st.userRing)
	for u := 0; u < users; u++ {
		st.userIdx = (st.userIdx + 1) % users
		userID := st.userRing[st.userIdx]

		ring := st.taskRing[userID]
		tasks := len(ring)
		for t := 0; t < tasks; t++ {
			st.taskIdx[userID] = (st.taskIdx[userID] + 1) % tasks
			q := st.queues[ring[st.taskIdx[userID]]]
			if q == nil || !q.eligible(providerID) {
				continue
			}

			subTaskID := q.subtaskIDs[q.cursor]
			q.cursor++
			return Selection{SubTaskID: subTaskID, TaskID: q.taskID, UserID: q.userID}, true
		}
	}
	return Selection{}, false
}

func (st *schedState) addToRings(userID, taskID string) {
	if _, known := st.taskRing[userID]; !known {
		st.userRing = append(st.userRing, userID)
	}
	st.taskRing[userID] = append(st.taskRing[userID], taskID)
}

func (st *schedState) removeFromRings(userID, taskID string) {
	ring := st.taskRing[userID]
	for i, id := range ring {
		if id == taskID {
			st.taskRing[userID] = append(ring[:i], ring[i+1:]...)
			if st.taskIdx[userID] >= len(st.taskRing[userID]) {
				st.taskIdx[userID] = 0
			}
			break
		}
	}

	if len(st.taskRing[userID]) > 0 {
		return
	}

	delete(st.taskRing, userID)
	delete(st.taskIdx, userID)
	for i, id := range st.userRing {
		if id == userID {
			st.userRing = append(st.userRing[:i], st.userRing[i+1:]...)
			if st.userIdx >= len(st.userRing) {
				st.userIdx = 0
			}
			break
		}
	}
}
