package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/internal/service/scheduler"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

//go:generate mockgen -destination mocks/mock_scheduler_control.go -package mocks -source scheduler_handler.go SchedulerControl

// SchedulerControl is the operational surface over the scheduler and
// its provider pollers.
type SchedulerControl interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	Snapshot(ctx context.Context) ([]scheduler.QueueSnapshot, error)
	PollerStatus() []scheduler.PollerStatus
	StartProvider(ctx context.Context, providerID string) error
	TriggerPass(ctx context.Context, providerID string) (bool, error)
}

// SchedulerHandler exposes start/stop/status and manual scheduling
// passes for operators.
type SchedulerHandler struct {
	control SchedulerControl
	logger  logger.Logger
}

func NewSchedulerHandler(control SchedulerControl, logger logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		control: control,
		logger:  logger,
	}
}

func (h *SchedulerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/scheduler.status", http.HandlerFunc(h.handleStatus))
	mux.Handle("/api/scheduler.start", http.HandlerFunc(h.handleStart))
	mux.Handle("/api/scheduler.stop", http.HandlerFunc(h.handleStop))
	mux.Handle("/api/scheduler.startProvider", http.HandlerFunc(h.handleStartProvider))
	mux.Handle("/api/scheduler.trigger", http.HandlerFunc(h.handleTrigger))
}

func (h *SchedulerHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	running := h.control.IsRunning()
	var queues []scheduler.QueueSnapshot
	if running {
		var err error
		queues, err = h.control.Snapshot(r.Context())
		if err != nil {
			h.logger.Error("Failed to snapshot scheduler: " + err.Error())
			WriteJSONError(w, "Failed to snapshot scheduler", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running": running,
		"queues":  queues,
		"pollers": h.control.PollerStatus(),
	})
}

func (h *SchedulerHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.control.Start(r.Context()); err != nil {
		h.logger.Error("Failed to start scheduler: " + err.Error())
		WriteJSONError(w, "Failed to start scheduler", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SchedulerHandler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.control.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ProviderActionRequest targets one provider poller
type ProviderActionRequest struct {
	ProviderID string `json:"provider_id"`
}

func (h *SchedulerHandler) handleStartProvider(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProviderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderID == "" {
		WriteJSONError(w, "provider_id is required", http.StatusBadRequest)
		return
	}

	if err := h.control.StartProvider(r.Context(), req.ProviderID); err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		var notFound *domain.ErrProviderNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to start provider poller: " + err.Error())
		WriteJSONError(w, "Failed to start provider poller", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SchedulerHandler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProviderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderID == "" {
		WriteJSONError(w, "provider_id is required", http.StatusBadRequest)
		return
	}

	dispatched, err := h.control.TriggerPass(r.Context(), req.ProviderID)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("Failed to trigger scheduling pass: " + err.Error())
		WriteJSONError(w, "Failed to trigger scheduling pass", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"dispatched": dispatched})
}
