package dto

import (
	"time"

	"github.com/tickbox/tickbox/internal/model"
)

// TodoRequest represents the request body for creating or updating a todo.
// There is intentionally no owner field - ownership always comes from the
// authenticated caller.
type TodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Done        bool     `json:"done,omitempty"`
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoListResponse represents a paginated list of todos.
type TodoListResponse struct {
	Data  []TodoResponse `json:"data"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	tags := todo.Tags
	if tags == nil {
		tags = []string{}
	}
	return &TodoResponse{
		ID:          todo.ID,
		OwnerID:     todo.OwnerID,
		Title:       todo.Title,
		Description: todo.Description,
		Tags:        tags,
		Done:        todo.Done,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of Todo models to TodoListResponse.
func ToTodoListResponse(todos []*model.Todo, page, limit, total int) *TodoListResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = *ToTodoResponse(todo)
	}
	return &TodoListResponse{
		Data:  responses,
		Page:  page,
		Limit: limit,
		Total: total,
	}
}
