package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/domain/mocks"
	pkgmocks "github.com/mailfleet/mailfleet/pkg/mocks"
)

type webhookFixture struct {
	subTaskRepo      *mocks.MockSubTaskRepository
	taskRepo         *mocks.MockTaskRepository
	contactRepo      *mocks.MockContactRepository
	providerRepo     *mocks.MockProviderRepository
	conversationRepo *mocks.MockConversationRepository
	eventRepo        *mocks.MockWebhookEventRepository
	service          *WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	ctrl := gomock.NewController(t)

	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().WithFields(gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &webhookFixture{
		subTaskRepo:      mocks.NewMockSubTaskRepository(ctrl),
		taskRepo:         mocks.NewMockTaskRepository(ctrl),
		contactRepo:      mocks.NewMockContactRepository(ctrl),
		providerRepo:     mocks.NewMockProviderRepository(ctrl),
		conversationRepo: mocks.NewMockConversationRepository(ctrl),
		eventRepo:        mocks.NewMockWebhookEventRepository(ctrl),
	}
	f.service = NewWebhookService(
		f.subTaskRepo, f.taskRepo, f.contactRepo, f.providerRepo,
		f.conversationRepo, f.eventRepo, mockLogger)
	return f
}

func webhookSubTask() *domain.SubTask {
	return &domain.SubTask{
		ID:        testSubTaskID,
		TaskID:    testTaskID,
		ContactID: "c1",
		Status:    domain.SubTaskStatusSent,
	}
}

func TestDecodeInboundEvents(t *testing.T) {
	t.Run("single event object", func(t *testing.T) {
		payload := []byte(`{"event":"delivered","correlation_id":"st-1","email":"ana@example.com","timestamp":1756700000}`)
		events := decodeInboundEvents("smtp", payload)
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventDelivered, events[0].Type)
		assert.Equal(t, "st-1", events[0].CorrelationID)
		assert.Equal(t, "ana@example.com", events[0].RecipientEmail)
		assert.Equal(t, time.Unix(1756700000, 0).UTC(), events[0].Timestamp)
	})

	t.Run("batched events array", func(t *testing.T) {
		payload := []byte(`{"events":[{"event":"open","message_id":"m1"},{"event":"click","message_id":"m2","url":"https://x.test"}]}`)
		events := decodeInboundEvents("http", payload)
		require.Len(t, events, 2)
		assert.Equal(t, domain.EventOpen, events[0].Type)
		assert.Equal(t, domain.EventClick, events[1].Type)
		assert.Equal(t, "m2", events[1].ProviderMessageID)
	})

	t.Run("provider vocabulary is normalized", func(t *testing.T) {
		payload := []byte(`[{"event":"hard_bounce","email":"a@b.c"},{"event":"spamreport","email":"a@b.c"},{"event":"deferred","email":"a@b.c"}]`)
		events := decodeInboundEvents("http", payload)
		require.Len(t, events, 3)
		assert.Equal(t, domain.EventInvalidEmail, events[0].Type)
		assert.Equal(t, domain.EventReportSpam, events[1].Type)
		assert.Equal(t, domain.EventSoftBounce, events[2].Type)
	})

	t.Run("unknown event types are dropped", func(t *testing.T) {
		payload := []byte(`{"event":"provider_heartbeat"}`)
		assert.Empty(t, decodeInboundEvents("http", payload))
	})

	t.Run("garbage payload yields nothing", func(t *testing.T) {
		assert.Empty(t, decodeInboundEvents("http", []byte("not json at all{{")))
	})
}

func TestWebhookService_ProcessWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered event resolved by correlation id", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"delivered","correlation_id":"` + testSubTaskID + `","timestamp":1756700000}`)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).Return(webhookSubTask(), nil)
		f.subTaskRepo.EXPECT().Transition(gomock.Any(), testSubTaskID, domain.SubTaskStatusDelivered, gomock.Any()).
			Return(true, nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *domain.WebhookEvent) error {
				assert.True(t, row.Applied)
				require.NotNil(t, row.SubTaskID)
				assert.Equal(t, testSubTaskID, *row.SubTaskID)
				return nil
			})
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		assert.NoError(t, f.service.ProcessWebhook(ctx, "smtp", payload))
	})

	t.Run("falls back to provider message id then recipient email", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"delivered","message_id":"pm-9","email":"ana@example.com"}`)

		f.subTaskRepo.EXPECT().GetByProviderMessageID(gomock.Any(), "pm-9").
			Return(nil, &domain.ErrSubTaskNotFound{ID: "pm-9"})
		f.subTaskRepo.EXPECT().GetLatestSentToEmail(gomock.Any(), "ana@example.com").
			Return(webhookSubTask(), nil)
		f.subTaskRepo.EXPECT().Transition(gomock.Any(), testSubTaskID, domain.SubTaskStatusDelivered, gomock.Any()).
			Return(true, nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		assert.NoError(t, f.service.ProcessWebhook(ctx, "http", payload))
	})

	t.Run("unresolvable event is logged, not applied", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"open","email":"ghost@example.com"}`)

		f.subTaskRepo.EXPECT().GetLatestSentToEmail(gomock.Any(), "ghost@example.com").
			Return(nil, &domain.ErrSubTaskNotFound{ID: "ghost"})
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *domain.WebhookEvent) error {
				assert.False(t, row.Applied)
				assert.Nil(t, row.SubTaskID)
				return nil
			})

		assert.NoError(t, f.service.ProcessWebhook(ctx, "http", payload))
	})

	t.Run("replayed delivered event is a no-op", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"delivered","correlation_id":"` + testSubTaskID + `"}`)

		sub := webhookSubTask()
		sub.Status = domain.SubTaskStatusDelivered
		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).Return(sub, nil)
		// The monotonic guard refuses the duplicate; no re-aggregation.
		f.subTaskRepo.EXPECT().Transition(gomock.Any(), testSubTaskID, domain.SubTaskStatusDelivered, gomock.Any()).
			Return(false, nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *domain.WebhookEvent) error {
				assert.False(t, row.Applied)
				return nil
			})

		assert.NoError(t, f.service.ProcessWebhook(ctx, "smtp", payload))
	})

	t.Run("hard bounce invalidates the contact address", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"hard_bounce","correlation_id":"` + testSubTaskID + `"}`)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).Return(webhookSubTask(), nil)
		f.subTaskRepo.EXPECT().Transition(gomock.Any(), testSubTaskID, domain.SubTaskStatusBounced, gomock.Any()).
			Return(true, nil)
		f.contactRepo.EXPECT().MarkInvalidEmail(gomock.Any(), "c1").Return(nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		assert.NoError(t, f.service.ProcessWebhook(ctx, "http", payload))
	})

	t.Run("spam report suppresses the contact", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"spam","correlation_id":"` + testSubTaskID + `"}`)

		f.subTaskRepo.EXPECT().Get(gomock.Any(), testSubTaskID).Return(webhookSubTask(), nil)
		f.subTaskRepo.EXPECT().Transition(gomock.Any(), testSubTaskID, domain.SubTaskStatusComplained, gomock.Any()).
			Return(true, nil)
		f.contactRepo.EXPECT().MarkSuppressed(gomock.Any(), "c1").Return(nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		f.taskRepo.EXPECT().RecomputeStats(gomock.Any(), testTaskID).Return(&domain.TaskStats{}, nil)

		assert.NoError(t, f.service.ProcessWebhook(ctx, "http", payload))
	})

	t.Run("reply routes into a conversation by sender address", func(t *testing.T) {
		f := newWebhookFixture(t)
		payload := []byte(`{"event":"reply","sender_email":"news@fleet.example.com","email":"ana@example.com"}`)

		f.providerRepo.EXPECT().GetBindingBySender(gomock.Any(), "news@fleet.example.com").
			Return(&domain.UserProvider{UserID: testUserID, SenderAddress: "news@fleet.example.com"}, nil)
		f.conversationRepo.EXPECT().FindOrCreate(gomock.Any(), testUserID, "ana@example.com", gomock.Any()).
			Return(&domain.Conversation{ID: "conv-1"}, nil)
		f.subTaskRepo.EXPECT().GetLatestSentToEmail(gomock.Any(), "ana@example.com").
			Return(webhookSubTask(), nil)
		f.eventRepo.EXPECT().Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *domain.WebhookEvent) error {
				assert.True(t, row.Applied)
				require.NotNil(t, row.UserID)
				assert.Equal(t, testUserID, *row.UserID)
				return nil
			})

		assert.NoError(t, f.service.ProcessWebhook(ctx, "smtp", payload))
	})

	t.Run("undecodable payload is an error", func(t *testing.T) {
		f := newWebhookFixture(t)
		err := f.service.ProcessWebhook(ctx, "http", []byte(`{"event":"heartbeat"}`))
		assert.Error(t, err)
	})
}

func TestWebhookService_ListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("by subtask", func(t *testing.T) {
		f := newWebhookFixture(t)
		stored := []*domain.WebhookEvent{{ID: "ev-1", Type: domain.EventOpen}, {ID: "ev-2", Type: domain.EventClick}}

		f.eventRepo.EXPECT().ListBySubTask(gomock.Any(), testSubTaskID, 20, 0).Return(stored, nil)

		events, total, err := f.service.ListEvents(ctx, domain.EventListParams{SubTaskID: testSubTaskID})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Equal(t, stored, events)
	})

	t.Run("by type pages with a separate count", func(t *testing.T) {
		f := newWebhookFixture(t)
		stored := []*domain.WebhookEvent{{ID: "ev-1", Type: domain.EventSoftBounce}}

		f.eventRepo.EXPECT().ListByType(gomock.Any(), domain.EventSoftBounce, 1, 5).Return(stored, nil)
		f.eventRepo.EXPECT().CountByType(gomock.Any(), domain.EventSoftBounce).Return(37, nil)

		events, total, err := f.service.ListEvents(ctx, domain.EventListParams{Type: domain.EventSoftBounce, Limit: 1, Offset: 5})
		require.NoError(t, err)
		assert.Equal(t, 37, total)
		require.Len(t, events, 1)
	})

	t.Run("requires exactly one filter", func(t *testing.T) {
		f := newWebhookFixture(t)

		_, _, err := f.service.ListEvents(ctx, domain.EventListParams{})
		assert.Error(t, err)

		_, _, err = f.service.ListEvents(ctx, domain.EventListParams{SubTaskID: testSubTaskID, Type: domain.EventOpen})
		assert.Error(t, err)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		f := newWebhookFixture(t)

		_, _, err := f.service.ListEvents(ctx, domain.EventListParams{Type: domain.EventType("heartbeat")})
		assert.Error(t, err)
	})
}
