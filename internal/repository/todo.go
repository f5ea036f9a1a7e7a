package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/tickbox/tickbox/internal/model"
)

// Common errors for todo repository operations.
var (
	// ErrTodoNotFound is returned when no todo with the given ID is owned by
	// the caller. An ID that belongs to another user is indistinguishable
	// from an ID that does not exist.
	ErrTodoNotFound = errors.New("todo not found")
)

// TodoFilter defines filters for listing todos.
// OwnerID is mandatory - there is no unscoped listing.
type TodoFilter struct {
	OwnerID string
	Tag     string
}

// CreateTodo inserts a new todo into the database.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, owner_id, title, description, tags, done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		pq.Array(todo.Tags),
		todo.Done,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodo retrieves a todo by ID, scoped to the given owner.
func (r *Repository) GetTodo(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	query := `
		SELECT id, owner_id, title, description, tags, done, created_at, updated_at
		FROM todos
		WHERE id = $1 AND owner_id = $2
	`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListTodos retrieves a page of todos for an owner plus the total count.
// Results are ordered newest first with ID as tiebreaker so pages are stable.
func (r *Repository) ListTodos(ctx context.Context, filter TodoFilter, page, limit int) ([]*model.Todo, int, error) {
	countQuery := `SELECT COUNT(*) FROM todos WHERE owner_id = $1`
	countArgs := []any{filter.OwnerID}
	if filter.Tag != "" {
		countQuery += ` AND $2 = ANY(tags)`
		countArgs = append(countArgs, filter.Tag)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	query := `
		SELECT id, owner_id, title, description, tags, done, created_at, updated_at
		FROM todos
		WHERE owner_id = $1
	`
	args := []any{filter.OwnerID}
	if filter.Tag != "" {
		query += ` AND $2 = ANY(tags)`
		args = append(args, filter.Tag)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, (page-1)*limit, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0, limit)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, total, nil
}

// UpdateTodo updates a todo owned by the given owner and returns the new row.
// The owner scoping in the WHERE clause means an ID owned by someone else
// returns ErrTodoNotFound exactly like a missing ID.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	query := `
		UPDATE todos
		SET title = $3, description = $4, tags = $5, done = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, description, tags, done, created_at, updated_at
	`

	updated, err := scanTodo(r.pool.QueryRow(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		pq.Array(todo.Tags),
		todo.Done,
		todo.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// DeleteTodo permanently removes a todo owned by the given owner.
func (r *Repository) DeleteTodo(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// scanTodo scans a todo row from a query result.
func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	var tags []string
	err := row.Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.Title,
		&todo.Description,
		pq.Array(&tags),
		&todo.Done,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	todo.Tags = tags
	return &todo, nil
}
