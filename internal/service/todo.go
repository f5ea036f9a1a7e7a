package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tickbox/tickbox/internal/model"
	"github.com/tickbox/tickbox/internal/repository"
)

// Todo service errors.
var (
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrTooManyTags        = errors.New("too many tags")
	ErrTodoNotFound       = errors.New("todo not found")
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxTags              = 16

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// TodoService handles todo business logic.
// Every operation takes the authenticated owner ID; there is no way to act
// on rows of another user.
type TodoService struct {
	repo *repository.Repository
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo *repository.Repository) *TodoService {
	return &TodoService{repo: repo}
}

// TodoInput defines the caller-supplied fields of a todo.
// The owner is never part of the input - it always comes from the
// authenticated context.
type TodoInput struct {
	Title       string
	Description string
	Tags        []string
	Done        bool
}

// Validate checks the todo input.
func (in *TodoInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if len(in.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if len(in.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(in.Tags) > maxTags {
		return ErrTooManyTags
	}
	return nil
}

// CreateTodo creates a todo owned by ownerID.
func (s *TodoService) CreateTodo(ctx context.Context, ownerID string, input TodoInput) (*model.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo := &model.Todo{
		ID:          ulid.Make().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Tags:        normalizeTags(input.Tags),
		Done:        input.Done,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// ListTodosInput defines input for listing todos.
type ListTodosInput struct {
	OwnerID string
	Page    int
	Limit   int
	Tag     string
}

// ListTodosResult holds a page of todos and pagination metadata.
type ListTodosResult struct {
	Todos []*model.Todo
	Page  int
	Limit int
	Total int
}

// ListTodos returns a page of the owner's todos, newest first.
// Non-positive page/limit fall back to defaults; limit is capped.
func (s *TodoService) ListTodos(ctx context.Context, input ListTodosInput) (*ListTodosResult, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := repository.TodoFilter{
		OwnerID: input.OwnerID,
		Tag:     input.Tag,
	}

	todos, total, err := s.repo.ListTodos(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return &ListTodosResult{
		Todos: todos,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// UpdateTodo replaces the caller-editable fields of an owned todo.
// An ID that is absent or owned by another user returns ErrTodoNotFound.
func (s *TodoService) UpdateTodo(ctx context.Context, ownerID, id string, input TodoInput) (*model.Todo, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	todo := &model.Todo{
		ID:          id,
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Tags:        normalizeTags(input.Tags),
		Done:        input.Done,
		UpdatedAt:   time.Now().UTC(),
	}

	updated, err := s.repo.UpdateTodo(ctx, todo)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// DeleteTodo permanently removes an owned todo.
// Deleting an already-deleted ID returns ErrTodoNotFound again.
func (s *TodoService) DeleteTodo(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteTodo(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// normalizeTags trims tags and drops empties while preserving order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
