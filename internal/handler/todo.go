package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tickbox/tickbox/internal/auth"
	"github.com/tickbox/tickbox/internal/handler/dto"
	"github.com/tickbox/tickbox/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
// All routes require the auth middleware; the owner is always taken from
// the request context, never from the payload.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustAuthFromContext(r.Context())

	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid request body")
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), owner.UserID, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Done:        req.Done,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"user_id", owner.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(todo))
}

// List handles GET /todos?page=&limit=&tag=.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustAuthFromContext(r.Context())
	query := r.URL.Query()

	page, ok := parsePositiveInt(query.Get("page"), 1)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_PAGE", "Page must be a positive integer")
		return
	}
	limit, ok := parsePositiveInt(query.Get("limit"), 10)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_LIMIT", "Limit must be a positive integer")
		return
	}

	result, err := h.svc.ListTodos(r.Context(), service.ListTodosInput{
		OwnerID: owner.UserID,
		Page:    page,
		Limit:   limit,
		Tag:     query.Get("tag"),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(result.Todos, result.Page, result.Limit, result.Total))
}

// Update handles PUT /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_ID", "Todo ID is required")
		return
	}

	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid request body")
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), owner.UserID, id, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Done:        req.Done,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_updated",
		"todo_id", todo.ID,
		"user_id", owner.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_ID", "Todo ID is required")
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), owner.UserID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_deleted",
		"todo_id", id,
		"user_id", owner.UserID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps todo service errors to HTTP responses.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrTitleTooLong):
		writeError(w, http.StatusUnprocessableEntity, "TITLE_TOO_LONG", "Title exceeds maximum length")
	case errors.Is(err, service.ErrDescriptionTooLong):
		writeError(w, http.StatusUnprocessableEntity, "DESCRIPTION_TOO_LONG", "Description exceeds maximum length")
	case errors.Is(err, service.ErrTooManyTags):
		writeError(w, http.StatusUnprocessableEntity, "TOO_MANY_TAGS", "Too many tags")
	case errors.Is(err, service.ErrTodoNotFound):
		// Absent and foreign-owned IDs are indistinguishable.
		writeError(w, http.StatusNotFound, "TODO_NOT_FOUND", "Todo not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// parsePositiveInt parses an optional positive integer query parameter.
// An absent parameter yields the fallback; a present but non-positive or
// non-numeric one is rejected.
func parsePositiveInt(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return 0, false
	}
	return parsed, true
}
