package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/commands/bus"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	querybus "github.com/olafwrieden/azurechat-v3/application/queries/bus"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

// ThreadHandler handles thread-related HTTP requests
type ThreadHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ThreadHandler {
	return &ThreadHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// RenameThreadRequest represents the request body for renaming a thread
type RenameThreadRequest struct {
	Title string `json:"title"`
}

// CreateThread handles POST /threads
func (h *ThreadHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateThreadCommand
	if err := decodeOptionalBody(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// ListThreads handles GET /threads
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	query, err := listQueryFromURL(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetThread handles GET /threads/{threadID}
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetThreadQuery{
		ThreadID: chi.URLParam(r, "threadID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ToggleBookmark handles POST /threads/{threadID}/bookmark
func (h *ThreadHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.ToggleBookmarkCommand{
		ThreadID: chi.URLParam(r, "threadID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// RenameThread handles PATCH /threads/{threadID}
func (h *ThreadHandler) RenameThread(w http.ResponseWriter, r *http.Request) {
	var req RenameThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body").WithCause(err))
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.RenameThreadCommand{
		ThreadID: chi.URLParam(r, "threadID"),
		Title:    req.Title,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteThread handles DELETE /threads/{threadID}
func (h *ThreadHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	result, err := h.commandBus.Send(r.Context(), commands.DeleteThreadCommand{
		ThreadID: chi.URLParam(r, "threadID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func listQueryFromURL(r *http.Request) (queries.ListThreadsQuery, error) {
	values := r.URL.Query()
	query := queries.ListThreadsQuery{
		Order:  values.Get("order"),
		UserID: values.Get("userId"),
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return query, apperrors.NewValidationError("limit must be an integer")
		}
		query.Limit = limit
	}

	if v := values.Get("bookmarked"); v != "" {
		bookmarked, err := strconv.ParseBool(v)
		if err != nil {
			return query, apperrors.NewValidationError("bookmarked must be true or false")
		}
		query.Bookmarked = &bookmarked
	}

	return query, nil
}

// decodeOptionalBody decodes a JSON body into v, leaving v untouched when
// the body is empty
func decodeOptionalBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.NewValidationError("Invalid request body").WithCause(err)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
