package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/domain/mocks"
	servicemocks "github.com/mailfleet/mailfleet/internal/service/mocks"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	pkgmocks "github.com/mailfleet/mailfleet/pkg/mocks"
)

const (
	testTaskID    = "b4a9f8e2-1c3d-4e5f-8a7b-9c0d1e2f3a4b"
	testSubTaskID = "c5b0a9f3-2d4e-5f60-9b8c-0d1e2f3a4b5c"
	testUserID    = "user-1"
)

type taskServiceFixture struct {
	taskRepo     *mocks.MockTaskRepository
	subTaskRepo  *mocks.MockSubTaskRepository
	contactRepo  *mocks.MockContactRepository
	templateRepo *mocks.MockTemplateRepository
	providerRepo *mocks.MockProviderRepository
	quotaRepo    *mocks.MockQuotaRepository
	registry     *servicemocks.MockQueueRegistry
	service      *TaskService
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	ctrl := gomock.NewController(t)

	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().WithFields(gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &taskServiceFixture{
		taskRepo:     mocks.NewMockTaskRepository(ctrl),
		subTaskRepo:  mocks.NewMockSubTaskRepository(ctrl),
		contactRepo:  mocks.NewMockContactRepository(ctrl),
		templateRepo: mocks.NewMockTemplateRepository(ctrl),
		providerRepo: mocks.NewMockProviderRepository(ctrl),
		quotaRepo:    mocks.NewMockQuotaRepository(ctrl),
		registry:     servicemocks.NewMockQueueRegistry(ctrl),
	}
	f.service = NewTaskService(
		f.taskRepo, f.subTaskRepo, f.contactRepo, f.templateRepo,
		f.providerRepo, f.quotaRepo, f.registry, mockLogger)
	return f
}

func scheduledTask() *domain.Task {
	past := time.Now().UTC().Add(-time.Minute)
	return &domain.Task{
		ID:                testTaskID,
		UserID:            testUserID,
		Name:              "September launch",
		ContactIDs:        []string{"c1", "c2", "c3"},
		TemplateIDs:       []string{"t1"},
		TemplateSelection: domain.TemplateSelectionRoundRobin,
		Status:            domain.TaskStatusScheduled,
		ScheduledAt:       &past,
	}
}

func testContacts(ids ...string) []*domain.Contact {
	contacts := make([]*domain.Contact, len(ids))
	for i, id := range ids {
		contacts[i] = &domain.Contact{ID: id, UserID: testUserID, Email: id + "@example.com"}
	}
	return contacts
}

func TestTaskService_GenerateQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("expands contacts into subtasks and registers the queue", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), task.ContactIDs).
			Return(testContacts("c1", "c2", "c3"), nil)
		f.quotaRepo.EXPECT().GetBalance(gomock.Any(), testUserID).Return(100, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}, {ID: "p2"}}, nil)
		f.templateRepo.EXPECT().GetByIDs(gomock.Any(), []string{"t1"}).
			Return(map[string]*domain.Template{"t1": {ID: "t1"}}, nil)

		f.taskRepo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, commit *domain.GenerationCommit) error {
				require.Len(t, commit.SubTasks, 3)
				for _, st := range commit.SubTasks {
					assert.Equal(t, testTaskID, st.TaskID)
					assert.Equal(t, domain.SubTaskStatusPending, st.Status)
					assert.Equal(t, "t1", st.TemplateID)
					assert.NotEmpty(t, st.TrackingID)
				}
				assert.Equal(t, -3, commit.LedgerEntry.Delta)
				assert.Equal(t, domain.QuotaReasonGeneration, commit.LedgerEntry.Reason)
				return nil
			})

		f.registry.EXPECT().RegisterQueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params scheduler.RegisterQueueParams) error {
				assert.Equal(t, testTaskID, params.TaskID)
				assert.Equal(t, testUserID, params.UserID)
				assert.Len(t, params.SubTaskIDs, 3)
				assert.Equal(t, []string{"p1", "p2"}, params.ProviderIDs)
				return nil
			})

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.NoError(t, err)
	})

	t.Run("empty targeting fails the task", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), task.ContactIDs).Return(nil, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusFailed).Return(nil)

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.ErrorIs(t, err, domain.ErrNoRecipients)
	})

	t.Run("insufficient quota leaves the task scheduled", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), task.ContactIDs).
			Return(testContacts("c1", "c2", "c3"), nil)
		f.quotaRepo.EXPECT().GetBalance(gomock.Any(), testUserID).Return(2, nil)

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuota)
	})

	t.Run("no available provider aborts generation", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), task.ContactIDs).
			Return(testContacts("c1"), nil)
		f.quotaRepo.EXPECT().GetBalance(gomock.Any(), testUserID).Return(100, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).Return(nil, nil)

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.ErrorIs(t, err, domain.ErrNoAvailableProvider)
	})

	t.Run("not due task is rejected", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()
		task.Status = domain.TaskStatusCompleted

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.Error(t, err)
	})

	t.Run("round robin selection cycles templates", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		task := scheduledTask()
		task.TemplateIDs = []string{"t1", "t2"}

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).Return(task, nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), task.ContactIDs).
			Return(testContacts("c1", "c2", "c3"), nil)
		f.quotaRepo.EXPECT().GetBalance(gomock.Any(), testUserID).Return(100, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}}, nil)
		f.templateRepo.EXPECT().GetByIDs(gomock.Any(), []string{"t1", "t2"}).
			Return(map[string]*domain.Template{"t1": {ID: "t1"}, "t2": {ID: "t2"}}, nil)

		f.taskRepo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, commit *domain.GenerationCommit) error {
				require.Len(t, commit.SubTasks, 3)
				assert.Equal(t, "t1", commit.SubTasks[0].TemplateID)
				assert.Equal(t, "t2", commit.SubTasks[1].TemplateID)
				assert.Equal(t, "t1", commit.SubTasks[2].TemplateID)
				return nil
			})
		f.registry.EXPECT().RegisterQueue(gomock.Any(), gomock.Any()).Return(nil)

		err := f.service.GenerateQueue(ctx, testTaskID)
		assert.NoError(t, err)
	})
}

func TestTaskService_PauseResume(t *testing.T) {
	ctx := context.Background()

	t.Run("pause flips status and pauses the queue", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, Status: domain.TaskStatusSending}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusPaused).Return(nil)
		f.registry.EXPECT().Pause(gomock.Any(), testTaskID).Return(nil)

		err := f.service.PauseTask(ctx, &domain.PauseTaskRequest{TaskID: testTaskID})
		assert.NoError(t, err)
	})

	t.Run("pause rejects a completed task", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, Status: domain.TaskStatusCompleted}, nil)

		err := f.service.PauseTask(ctx, &domain.PauseTaskRequest{TaskID: testTaskID})
		assert.Error(t, err)
	})

	t.Run("resume requires a paused task", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, Status: domain.TaskStatusSending}, nil)

		err := f.service.ResumeTask(ctx, &domain.ResumeTaskRequest{TaskID: testTaskID})
		assert.Error(t, err)
	})

	t.Run("resume reactivates at the saved cursor", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, Status: domain.TaskStatusPaused}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusSending).Return(nil)
		f.registry.EXPECT().Resume(gomock.Any(), testTaskID).Return(nil)

		err := f.service.ResumeTask(ctx, &domain.ResumeTaskRequest{TaskID: testTaskID})
		assert.NoError(t, err)
	})

	t.Run("invalid task id fails validation", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		err := f.service.PauseTask(ctx, &domain.PauseTaskRequest{TaskID: "not-a-uuid"})
		assert.Error(t, err)
	})
}

func TestTaskService_RescheduleSubTask(t *testing.T) {
	ctx := context.Background()

	t.Run("requeues a failed subtask and re-appends it", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).
			Return(&domain.SubTask{ID: testSubTaskID, TaskID: testTaskID, Status: domain.SubTaskStatusFailed}, nil)
		f.subTaskRepo.EXPECT().Requeue(gomock.Any(), testSubTaskID).Return(nil)
		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusSending}, nil)
		f.registry.EXPECT().Append(gomock.Any(), testTaskID, testSubTaskID).Return(nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		err := f.service.RescheduleSubTask(ctx, &domain.RescheduleSubTaskRequest{SubTaskID: testSubTaskID})
		assert.NoError(t, err)
	})

	t.Run("reopens a completed task", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).
			Return(&domain.SubTask{ID: testSubTaskID, TaskID: testTaskID, Status: domain.SubTaskStatusFailed}, nil)
		f.subTaskRepo.EXPECT().Requeue(gomock.Any(), testSubTaskID).Return(nil)
		f.taskRepo.EXPECT().Get(gomock.Any(), testTaskID).
			Return(&domain.Task{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusCompleted}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusSending).Return(nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}}, nil)
		f.registry.EXPECT().RegisterQueue(gomock.Any(), gomock.Any()).Return(nil)
		f.registry.EXPECT().Append(gomock.Any(), testTaskID, testSubTaskID).Return(nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		err := f.service.RescheduleSubTask(ctx, &domain.RescheduleSubTaskRequest{SubTaskID: testSubTaskID})
		assert.NoError(t, err)
	})

	t.Run("requeue failure propagates", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).
			Return(&domain.SubTask{ID: testSubTaskID, TaskID: testTaskID, Status: domain.SubTaskStatusSent}, nil)
		f.subTaskRepo.EXPECT().Requeue(gomock.Any(), testSubTaskID).
			Return(errors.New("subtask is not failed"))

		err := f.service.RescheduleSubTask(ctx, &domain.RescheduleSubTaskRequest{SubTaskID: testSubTaskID})
		assert.Error(t, err)
	})
}

func TestTaskService_Recover(t *testing.T) {
	ctx := context.Background()

	t.Run("fails stranded subtasks and rebuilds queues", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), "dispatch interrupted by restart", gomock.Any()).
			Return(2, nil)
		f.taskRepo.EXPECT().ListUnsettled(gomock.Any()).Return([]*domain.Task{
			{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusSending},
		}, nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).
			Return(&domain.TaskStats{TotalPending: 3, TotalSent: 1}, nil)
		f.subTaskRepo.EXPECT().ListIDsByTask(gomock.Any(), testTaskID).
			Return([]string{"st1", "st2", "st3"}, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}, {ID: "p2"}}, nil)
		f.registry.EXPECT().RegisterQueue(gomock.Any(), scheduler.RegisterQueueParams{
			TaskID:      testTaskID,
			UserID:      testUserID,
			SubTaskIDs:  []string{"st1", "st2", "st3"},
			ProviderIDs: []string{"p1", "p2"},
		}).Return(nil)

		err := f.service.Recover(ctx)
		assert.NoError(t, err)
	})

	t.Run("paused task is rebuilt paused", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.taskRepo.EXPECT().ListUnsettled(gomock.Any()).Return([]*domain.Task{
			{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusPaused},
		}, nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).
			Return(&domain.TaskStats{TotalPending: 1}, nil)
		f.subTaskRepo.EXPECT().ListIDsByTask(gomock.Any(), testTaskID).
			Return([]string{"st1"}, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}}, nil)
		f.registry.EXPECT().RegisterQueue(gomock.Any(), gomock.Any()).Return(nil)
		f.registry.EXPECT().Pause(gomock.Any(), testTaskID).Return(nil)

		err := f.service.Recover(ctx)
		assert.NoError(t, err)
	})

	t.Run("drained task settles instead of re-registering", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
		f.taskRepo.EXPECT().ListUnsettled(gomock.Any()).Return([]*domain.Task{
			{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusSending},
		}, nil)
		// The restart sweep failed its last in-flight row, nothing
		// remains to dispatch.
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).
			Return(&domain.TaskStats{TotalSent: 4, TotalFailed: 1}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusCompleted).Return(nil)

		err := f.service.Recover(ctx)
		assert.NoError(t, err)
	})

	t.Run("drained task with no sends settles failed", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.taskRepo.EXPECT().ListUnsettled(gomock.Any()).Return([]*domain.Task{
			{ID: testTaskID, UserID: testUserID, Status: domain.TaskStatusQueued},
		}, nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).
			Return(&domain.TaskStats{TotalFailed: 5}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), testTaskID, domain.TaskStatusFailed).Return(nil)

		err := f.service.Recover(ctx)
		assert.NoError(t, err)
	})

	t.Run("one broken task does not block the rest", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.taskRepo.EXPECT().ListUnsettled(gomock.Any()).Return([]*domain.Task{
			{ID: "task-bad", UserID: testUserID, Status: domain.TaskStatusSending},
			{ID: "task-good", UserID: testUserID, Status: domain.TaskStatusSending},
		}, nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), "task-bad").
			Return(nil, errors.New("boom"))
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), "task-good").
			Return(&domain.TaskStats{TotalSent: 2}, nil)
		f.taskRepo.EXPECT().UpdateStatus(gomock.Any(), "task-good", domain.TaskStatusCompleted).Return(nil)

		err := f.service.Recover(ctx)
		assert.NoError(t, err)
	})

	t.Run("sweep failure aborts recovery", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		f.subTaskRepo.EXPECT().FailStale(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(0, errors.New("connection refused"))

		err := f.service.Recover(ctx)
		assert.Error(t, err)
	})
}

func TestTaskService_ProcessDueTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("one failing task does not block the rest", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		past := time.Now().UTC().Add(-time.Hour)

		due := []*domain.Task{
			{ID: "task-bad", UserID: testUserID, Status: domain.TaskStatusScheduled, ScheduledAt: &past, ContactIDs: []string{"c1"}, TemplateIDs: []string{"t1"}},
			{ID: "task-good", UserID: testUserID, Status: domain.TaskStatusScheduled, ScheduledAt: &past, ContactIDs: []string{"c1"}, TemplateIDs: []string{"t1"}},
		}
		f.taskRepo.EXPECT().ListDue(gomock.Any(), gomock.Any(), 10).Return(due, nil)

		// First task errors at fetch, second goes all the way through.
		f.taskRepo.EXPECT().Get(gomock.Any(), "task-bad").Return(nil, errors.New("boom"))

		f.taskRepo.EXPECT().Get(gomock.Any(), "task-good").Return(due[1], nil)
		f.contactRepo.EXPECT().GetByIDs(gomock.Any(), []string{"c1"}).Return(testContacts("c1"), nil)
		f.quotaRepo.EXPECT().GetBalance(gomock.Any(), testUserID).Return(10, nil)
		f.providerRepo.EXPECT().ListAvailableForUser(gomock.Any(), testUserID).
			Return([]*domain.Provider{{ID: "p1"}}, nil)
		f.templateRepo.EXPECT().GetByIDs(gomock.Any(), []string{"t1"}).
			Return(map[string]*domain.Template{"t1": {ID: "t1"}}, nil)
		f.taskRepo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).Return(nil)
		f.registry.EXPECT().RegisterQueue(gomock.Any(), gomock.Any()).Return(nil)

		err := f.service.ProcessDueTasks(ctx, 10)
		assert.NoError(t, err)
	})
}
