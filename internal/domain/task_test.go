package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_DueForGeneration(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("scheduled without a time is due immediately", func(t *testing.T) {
		task := &Task{Status: TaskStatusScheduled}
		assert.True(t, task.DueForGeneration(now))
	})

	t.Run("scheduled time elapsed", func(t *testing.T) {
		task := &Task{Status: TaskStatusScheduled, ScheduledAt: &past}
		assert.True(t, task.DueForGeneration(now))
	})

	t.Run("scheduled time exactly now", func(t *testing.T) {
		task := &Task{Status: TaskStatusScheduled, ScheduledAt: &now}
		assert.True(t, task.DueForGeneration(now))
	})

	t.Run("scheduled in the future", func(t *testing.T) {
		task := &Task{Status: TaskStatusScheduled, ScheduledAt: &future}
		assert.False(t, task.DueForGeneration(now))
	})

	t.Run("only scheduled tasks are due", func(t *testing.T) {
		for _, status := range []TaskStatus{
			TaskStatusDraft, TaskStatusQueued, TaskStatusSending,
			TaskStatusPaused, TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled,
		} {
			task := &Task{Status: status, ScheduledAt: &past}
			assert.False(t, task.DueForGeneration(now), "status %s", status)
		}
	})
}

func TestTaskStats_InFlight(t *testing.T) {
	assert.True(t, TaskStats{TotalPending: 3}.InFlight())
	assert.True(t, TaskStats{TotalAllocated: 1}.InFlight())
	assert.False(t, TaskStats{TotalSent: 5, TotalFailed: 2, TotalBounced: 1}.InFlight())
	assert.False(t, TaskStats{}.InFlight())
}

func TestTaskStats_ValueScan(t *testing.T) {
	stats := TaskStats{TotalRecipients: 10, TotalSent: 7, TotalOpened: 3}

	v, err := stats.Value()
	require.NoError(t, err)

	var decoded TaskStats
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, stats, decoded)

	var untouched TaskStats
	require.NoError(t, untouched.Scan(nil))
	assert.Equal(t, TaskStats{}, untouched)
}

func TestPauseTaskRequest_Validate(t *testing.T) {
	assert.Error(t, (&PauseTaskRequest{}).Validate())
	assert.Error(t, (&PauseTaskRequest{TaskID: "not-a-uuid"}).Validate())
	assert.NoError(t, (&PauseTaskRequest{TaskID: "b9cfa16a-0061-4f9e-b7f0-8b6b1ea4b937"}).Validate())
}

func TestRescheduleSubTaskRequest_Validate(t *testing.T) {
	assert.Error(t, (&RescheduleSubTaskRequest{}).Validate())
	assert.Error(t, (&RescheduleSubTaskRequest{SubTaskID: "42"}).Validate())
	assert.NoError(t, (&RescheduleSubTaskRequest{SubTaskID: "b9cfa16a-0061-4f9e-b7f0-8b6b1ea4b937"}).Validate())
}
