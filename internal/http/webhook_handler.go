package http

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// webhookBodyLimit bounds an inbound provider payload.
const webhookBodyLimit = 1 << 20

// WebhookHandler is the provider event ingress. Providers retry on
// non-2xx, so reconciliation failures past basic payload validation
// still acknowledge the delivery.
type WebhookHandler struct {
	service domain.WebhookService
	logger  logger.Logger
}

func NewWebhookHandler(service domain.WebhookService, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/", http.HandlerFunc(h.handleWebhook))
	mux.Handle("/api/events.list", http.HandlerFunc(h.handleListEvents))
}

func (h *WebhookHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	providerKind := strings.TrimPrefix(r.URL.Path, "/webhooks/")
	if providerKind == "" || strings.Contains(providerKind, "/") {
		WriteJSONError(w, "Unknown webhook path", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		WriteJSONError(w, "Failed to read payload", http.StatusBadRequest)
		return
	}

	if err := h.service.ProcessWebhook(r.Context(), providerKind, body); err != nil {
		h.logger.WithField("provider_kind", providerKind).
			Error("Failed to process webhook: " + err.Error())
		WriteJSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// ListEventsRequest is used to extract query parameters for reading the
// event log
type ListEventsRequest struct {
	SubTaskID string `json:"subtask_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// FromURLParams parses URL query parameters into the request
func (r *ListEventsRequest) FromURLParams(values url.Values) error {
	r.SubTaskID = values.Get("subtask_id")
	r.Type = values.Get("type")

	if limitStr := values.Get("limit"); limitStr != "" {
		var err error
		r.Limit, err = parseIntParam(limitStr)
		if err != nil {
			return &MissingParameterError{Param: "limit"}
		}
	}
	if offsetStr := values.Get("offset"); offsetStr != "" {
		var err error
		r.Offset, err = parseIntParam(offsetStr)
		if err != nil {
			return &MissingParameterError{Param: "offset"}
		}
	}
	return nil
}

func (h *WebhookHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ListEventsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := domain.EventListParams{
		SubTaskID: req.SubTaskID,
		Type:      domain.EventType(req.Type),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if err := params.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, total, err := h.service.ListEvents(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list events: " + err.Error())
		WriteJSONError(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
	})
}
