package scheduler

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/domain/mocks"
	pkgmocks "github.com/mailfleet/mailfleet/pkg/mocks"
)

// dispatchFunc adapts a function to the Dispatcher interface.
type dispatchFunc func(ctx context.Context, sel Selection, providerID string) error

func (f dispatchFunc) Dispatch(ctx context.Context, sel Selection, providerID string) error {
	return f(ctx, sel, providerID)
}

func availableProvider(id string) *domain.Provider {
	return &domain.Provider{
		ID:          id,
		Enabled:     true,
		DailyQuota:  100,
		RateSeconds: 60,
	}
}

type pollerFixture struct {
	providerRepo *mocks.MockProviderRepository
	scheduler    *Scheduler
	dispatched   []Selection
	manager      *PollerManager
}

func newPollerFixture(t *testing.T) *pollerFixture {
	ctrl := gomock.NewController(t)

	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().WithFields(gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &pollerFixture{
		providerRepo: mocks.NewMockProviderRepository(ctrl),
		scheduler:    NewScheduler(mockLogger),
	}
	require.NoError(t, f.scheduler.Start(context.Background()))
	t.Cleanup(f.scheduler.Stop)

	dispatcher := dispatchFunc(func(_ context.Context, sel Selection, _ string) error {
		f.dispatched = append(f.dispatched, sel)
		return nil
	})
	f.manager = NewPollerManager(f.providerRepo, f.scheduler, dispatcher, mockLogger)
	t.Cleanup(f.manager.Stop)
	return f
}

func TestPollerManager_StartProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("launches a poller for an available provider", func(t *testing.T) {
		f := newPollerFixture(t)

		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil)

		require.NoError(t, f.manager.StartProvider(ctx, "p1"))

		statuses := f.manager.Status()
		require.Len(t, statuses, 1)
		assert.Equal(t, "p1", statuses[0].ProviderID)
		assert.True(t, statuses[0].Running)
		assert.Equal(t, "1m0s", statuses[0].Interval)
	})

	t.Run("refuses an unavailable provider", func(t *testing.T) {
		f := newPollerFixture(t)

		frozen := availableProvider("p1")
		frozen.Frozen = true
		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(frozen, nil)

		err := f.manager.StartProvider(ctx, "p1")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
		assert.Empty(t, f.manager.Status())
	})

	t.Run("starting a live poller twice is a no-op", func(t *testing.T) {
		f := newPollerFixture(t)

		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil).Times(2)

		require.NoError(t, f.manager.StartProvider(ctx, "p1"))
		require.NoError(t, f.manager.StartProvider(ctx, "p1"))
		assert.Len(t, f.manager.Status(), 1)
	})
}

func TestPollerManager_Start(t *testing.T) {
	ctx := context.Background()
	f := newPollerFixture(t)

	f.providerRepo.EXPECT().ListEnabled(gomock.Any()).
		Return([]*domain.Provider{availableProvider("p1"), availableProvider("p2")}, nil)
	f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil)
	f.providerRepo.EXPECT().Get(gomock.Any(), "p2").Return(availableProvider("p2"), nil)

	require.NoError(t, f.manager.Start(ctx))
	assert.Len(t, f.manager.Status(), 2)
}

func TestPollerManager_TriggerPass(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches the next eligible subtask", func(t *testing.T) {
		f := newPollerFixture(t)

		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil).Times(2)

		require.NoError(t, f.manager.StartProvider(ctx, "p1"))
		require.NoError(t, f.scheduler.RegisterQueue(ctx, RegisterQueueParams{
			TaskID:      "task-a",
			UserID:      "alice",
			SubTaskIDs:  []string{"a1"},
			ProviderIDs: []string{"p1"},
		}))

		dispatched, err := f.manager.TriggerPass(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, dispatched)
		require.Len(t, f.dispatched, 1)
		assert.Equal(t, "a1", f.dispatched[0].SubTaskID)
	})

	t.Run("reports no work without a queue", func(t *testing.T) {
		f := newPollerFixture(t)

		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil).Times(2)

		require.NoError(t, f.manager.StartProvider(ctx, "p1"))

		dispatched, err := f.manager.TriggerPass(ctx, "p1")
		require.NoError(t, err)
		assert.False(t, dispatched)
		assert.Empty(t, f.dispatched)
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newPollerFixture(t)

		_, err := f.manager.TriggerPass(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("provider exhausted between ticks", func(t *testing.T) {
		f := newPollerFixture(t)

		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(availableProvider("p1"), nil)

		require.NoError(t, f.manager.StartProvider(ctx, "p1"))

		exhausted := availableProvider("p1")
		exhausted.UsedQuota = exhausted.DailyQuota
		f.providerRepo.EXPECT().Get(gomock.Any(), "p1").Return(exhausted, nil)

		_, err := f.manager.TriggerPass(ctx, "p1")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})
}
