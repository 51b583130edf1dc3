package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/http/mocks"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	pkgmocks "github.com/mailfleet/mailfleet/pkg/mocks"
)

func newSchedulerHandler(t *testing.T) (*mocks.MockSchedulerControl, *http.ServeMux) {
	ctrl := gomock.NewController(t)

	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	mockControl := mocks.NewMockSchedulerControl(ctrl)
	handler := NewSchedulerHandler(mockControl, mockLogger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mockControl, mux
}

func TestSchedulerHandler_HandleStatus(t *testing.T) {
	t.Run("running scheduler includes queue snapshots", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)

		mockControl.EXPECT().IsRunning().Return(true)
		mockControl.EXPECT().Snapshot(gomock.Any()).Return([]scheduler.QueueSnapshot{
			{TaskID: "task-1", UserID: "user-1", Length: 10, Cursor: 3},
		}, nil)
		mockControl.EXPECT().PollerStatus().Return([]scheduler.PollerStatus{
			{ProviderID: "p1", Running: true},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/scheduler.status", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"running":true`)
		assert.Contains(t, rec.Body.String(), "task-1")
	})

	t.Run("stopped scheduler skips the snapshot", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)

		mockControl.EXPECT().IsRunning().Return(false)
		mockControl.EXPECT().PollerStatus().Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/scheduler.status", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"running":false`)
	})
}

func TestSchedulerHandler_HandleStartStop(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().Start(gomock.Any()).Return(nil)

		rec := postJSON(mux, "/api/scheduler.start", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stop", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().Stop()

		rec := postJSON(mux, "/api/scheduler.stop", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("start only accepts POST", func(t *testing.T) {
		_, mux := newSchedulerHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/scheduler.start", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSchedulerHandler_HandleStartProvider(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().StartProvider(gomock.Any(), "p1").Return(nil)

		rec := postJSON(mux, "/api/scheduler.startProvider", map[string]string{"provider_id": "p1"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unavailable provider maps to 422", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().StartProvider(gomock.Any(), "p1").
			Return(domain.ErrProviderUnavailable)

		rec := postJSON(mux, "/api/scheduler.startProvider", map[string]string{"provider_id": "p1"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown provider maps to 404", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().StartProvider(gomock.Any(), "ghost").
			Return(&domain.ErrProviderNotFound{ID: "ghost"})

		rec := postJSON(mux, "/api/scheduler.startProvider", map[string]string{"provider_id": "ghost"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing provider_id", func(t *testing.T) {
		_, mux := newSchedulerHandler(t)

		rec := postJSON(mux, "/api/scheduler.startProvider", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSchedulerHandler_HandleTrigger(t *testing.T) {
	t.Run("reports whether anything was dispatched", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().TriggerPass(gomock.Any(), "p1").Return(true, nil)

		rec := postJSON(mux, "/api/scheduler.trigger", map[string]string{"provider_id": "p1"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"dispatched":true`)
	})

	t.Run("unavailable provider maps to 422", func(t *testing.T) {
		mockControl, mux := newSchedulerHandler(t)
		mockControl.EXPECT().TriggerPass(gomock.Any(), "p1").
			Return(false, domain.ErrProviderUnavailable)

		rec := postJSON(mux, "/api/scheduler.trigger", map[string]string{"provider_id": "p1"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
