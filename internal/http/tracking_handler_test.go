package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/http/mocks"
	pkgmocks "github.com/mailfleet/mailfleet/pkg/mocks"
	"github.com/mailfleet/mailfleet/pkg/tracking"
)

func newTrackingHandler(t *testing.T) (*mocks.MockTrackingService, *http.ServeMux) {
	ctrl := gomock.NewController(t)

	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	mockService := mocks.NewMockTrackingService(ctrl)
	handler := NewTrackingHandler(mockService, mockLogger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mockService, mux
}

func TestTrackingHandler_HandleOpen(t *testing.T) {
	t.Run("serves the pixel and records the hit", func(t *testing.T) {
		mockService, mux := newTrackingHandler(t)

		mockService.EXPECT().HandleOpen(gomock.Any(), "tok-1", gomock.Any())

		req := httptest.NewRequest(http.MethodGet, "/track/open/tok-1", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
		assert.Equal(t, tracking.TransparentPixel, rec.Body.Bytes())
	})

	t.Run("serves the pixel even without a token", func(t *testing.T) {
		_, mux := newTrackingHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/track/open/", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tracking.TransparentPixel, rec.Body.Bytes())
	})
}

func TestTrackingHandler_HandleClick(t *testing.T) {
	link := "https://example.com/offer"

	t.Run("redirects to the destination", func(t *testing.T) {
		mockService, mux := newTrackingHandler(t)

		mockService.EXPECT().HandleClick(gomock.Any(), "tok-1", link, gomock.Any()).
			Return(link, nil)

		req := httptest.NewRequest(http.MethodGet,
			"/track/click/tok-1?url="+url.QueryEscape(link), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, link, rec.Header().Get("Location"))
	})

	t.Run("unknown token degrades to 404", func(t *testing.T) {
		mockService, mux := newTrackingHandler(t)

		mockService.EXPECT().HandleClick(gomock.Any(), "ghost", link, gomock.Any()).
			Return("", domain.ErrLinkNotFound)

		req := httptest.NewRequest(http.MethodGet,
			"/track/click/ghost?url="+url.QueryEscape(link), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing url parameter", func(t *testing.T) {
		_, mux := newTrackingHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/track/click/tok-1", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
