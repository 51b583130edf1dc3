package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
	"github.com/mailfleet/mailfleet/pkg/tracking"
)

//go:generate mockgen -destination mocks/mock_tracking_service.go -package mocks -source tracking_handler.go TrackingService

// TrackingService records engagement hits from the public endpoints.
type TrackingService interface {
	HandleOpen(ctx context.Context, token string, at time.Time)
	HandleClick(ctx context.Context, token, rawURL string, at time.Time) (string, error)
}

// TrackingHandler serves the public open pixel and click redirect.
// These endpoints are hit by mail clients and must never leak internal
// errors: the pixel always renders and the redirect degrades to 404.
type TrackingHandler struct {
	service TrackingService
	logger  logger.Logger
}

func NewTrackingHandler(service TrackingService, logger logger.Logger) *TrackingHandler {
	return &TrackingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *TrackingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/track/open/", http.HandlerFunc(h.handleOpen))
	mux.Handle("/track/click/", http.HandlerFunc(h.handleClick))
}

func (h *TrackingHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.URL.Path, "/track/open/")
	if token != "" {
		h.service.HandleOpen(r.Context(), token, time.Now().UTC())
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tracking.TransparentPixel)
}

func (h *TrackingHandler) handleClick(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.URL.Path, "/track/click/")
	rawURL := r.URL.Query().Get("url")
	if token == "" || rawURL == "" {
		http.NotFound(w, r)
		return
	}

	target, err := h.service.HandleClick(r.Context(), token, rawURL, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, domain.ErrLinkNotFound) {
			h.logger.Error("Failed to handle click: " + err.Error())
		}
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
