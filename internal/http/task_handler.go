package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/mailfleet/mailfleet/internal/domain"
	"github.com/mailfleet/mailfleet/pkg/logger"
)

// TaskHandler exposes the admin RPC surface for tasks and subtasks.
type TaskHandler struct {
	service domain.TaskService
	logger  logger.Logger
}

func NewTaskHandler(service domain.TaskService, logger logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger,
	}
}

func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux) {
	// Register RPC-style endpoints with dot notation
	mux.Handle("/api/tasks.get", http.HandlerFunc(h.handleGet))
	mux.Handle("/api/tasks.generate", http.HandlerFunc(h.handleGenerate))
	mux.Handle("/api/tasks.pause", http.HandlerFunc(h.handlePause))
	mux.Handle("/api/tasks.resume", http.HandlerFunc(h.handleResume))
	mux.Handle("/api/subtasks.list", http.HandlerFunc(h.handleListSubTasks))
	mux.Handle("/api/subtasks.reschedule", http.HandlerFunc(h.handleReschedule))
}

// GetTaskRequest is used to extract query parameters for getting a task
type GetTaskRequest struct {
	ID string `json:"id"`
}

// FromURLParams parses URL query parameters into the request
func (r *GetTaskRequest) FromURLParams(values url.Values) error {
	r.ID = values.Get("id")
	if r.ID == "" {
		return &MissingParameterError{Param: "id"}
	}
	return nil
}

func (h *TaskHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GetTaskRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.service.GetTask(r.Context(), req.ID)
	if err != nil {
		var notFound *domain.ErrTaskNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get task: " + err.Error())
		WriteJSONError(w, "Failed to get task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

// GenerateQueueRequest triggers queue generation for a task
type GenerateQueueRequest struct {
	TaskID string `json:"task_id"`
}

func (h *TaskHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TaskID == "" {
		WriteJSONError(w, "task_id is required", http.StatusBadRequest)
		return
	}

	if err := h.service.GenerateQueue(r.Context(), req.TaskID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoRecipients),
			errors.Is(err, domain.ErrInsufficientQuota),
			errors.Is(err, domain.ErrNoAvailableProvider):
			WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			var notFound *domain.ErrTaskNotFound
			if errors.As(err, &notFound) {
				WriteJSONError(w, err.Error(), http.StatusNotFound)
				return
			}
			h.logger.Error("Failed to generate queue: " + err.Error())
			WriteJSONError(w, "Failed to generate queue", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TaskHandler) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.PauseTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.PauseTask(r.Context(), &req); err != nil {
		var notFound *domain.ErrTaskNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to pause task: " + err.Error())
		WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TaskHandler) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ResumeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ResumeTask(r.Context(), &req); err != nil {
		var notFound *domain.ErrTaskNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to resume task: " + err.Error())
		WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TaskHandler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RescheduleSubTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RescheduleSubTask(r.Context(), &req); err != nil {
		var notFound *domain.ErrSubTaskNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to reschedule subtask: " + err.Error())
		WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListSubTasksRequest is used to extract query parameters for listing subtasks
type ListSubTasksRequest struct {
	TaskID     string `json:"task_id,omitempty"`
	ContactID  string `json:"contact_id,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// FromURLParams parses URL query parameters into the request
func (r *ListSubTasksRequest) FromURLParams(values url.Values) error {
	r.TaskID = values.Get("task_id")
	r.ContactID = values.Get("contact_id")
	r.ProviderID = values.Get("provider_id")
	r.Status = values.Get("status")

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

func (h *TaskHandler) handleListSubTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ListSubTasksRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	subTasks, total, err := h.service.ListSubTasks(r.Context(), domain.SubTaskListParams{
		TaskID:     req.TaskID,
		ContactID:  req.ContactID,
		ProviderID: req.ProviderID,
		Status:     domain.SubTaskStatus(req.Status),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		h.logger.Error("Failed to list subtasks: " + err.Error())
		WriteJSONError(w, "Failed to list subtasks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subtasks": subTasks,
		"total":    total,
	})
}
