//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tickbox/tickbox/internal/model"
	"github.com/tickbox/tickbox/internal/testutil"
)

// ============================================================================
// Todo Repository Integration Tests
// ============================================================================

func TestIntegrationTodoRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "create")

	todo := testutil.NewTestTodo(t, owner.ID, "Buy milk")
	todo.Tags = []string{"errand", "home"}

	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	retrieved, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}

	if retrieved.Title != todo.Title {
		t.Errorf("Title mismatch: got %q, want %q", retrieved.Title, todo.Title)
	}
	if len(retrieved.Tags) != 2 || retrieved.Tags[0] != "errand" || retrieved.Tags[1] != "home" {
		t.Errorf("Tags mismatch: got %v", retrieved.Tags)
	}
	if retrieved.Done {
		t.Error("New todo should not be done")
	}
}

func TestIntegrationTodoRepository_GetTodo_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	alice := createTestOwner(t, ctx, repo, "alice")
	bob := createTestOwner(t, ctx, repo, "bob")

	todo := testutil.NewTestTodo(t, alice.ID, "Alice's secret")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	// Bob asking for Alice's todo looks exactly like a missing ID.
	_, err := repo.GetTodo(ctx, todo.ID, bob.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound, got %v", err)
	}
}

func TestIntegrationTodoRepository_ListTodos_OwnerScoped(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	alice := createTestOwner(t, ctx, repo, "alice")
	bob := createTestOwner(t, ctx, repo, "bob")

	for i := 0; i < 3; i++ {
		todo := testutil.NewTestTodo(t, alice.ID, fmt.Sprintf("alice %d", i))
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}
	bobTodo := testutil.NewTestTodo(t, bob.ID, "bob only")
	if err := repo.CreateTodo(ctx, bobTodo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	todos, total, err := repo.ListTodos(ctx, TodoFilter{OwnerID: alice.ID}, 1, 10)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}

	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(todos) != 3 {
		t.Errorf("Expected 3 todos, got %d", len(todos))
	}
	for _, todo := range todos {
		if todo.OwnerID != alice.ID {
			t.Errorf("List leaked foreign todo %s owned by %s", todo.ID, todo.OwnerID)
		}
	}
}

func TestIntegrationTodoRepository_ListTodos_Pagination(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "pager")

	for i := 0; i < 25; i++ {
		todo := testutil.NewTestTodo(t, owner.ID, fmt.Sprintf("item %02d", i))
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	for page := 1; page <= 3; page++ {
		todos, total, err := repo.ListTodos(ctx, TodoFilter{OwnerID: owner.ID}, page, 10)
		if err != nil {
			t.Fatalf("ListTodos page %d failed: %v", page, err)
		}
		if total != 25 {
			t.Errorf("Page %d: expected total 25, got %d", page, total)
		}

		want := 10
		if page == 3 {
			want = 5
		}
		if len(todos) != want {
			t.Errorf("Page %d: expected %d todos, got %d", page, want, len(todos))
		}

		for _, todo := range todos {
			if seen[todo.ID] {
				t.Errorf("Todo %s appeared on more than one page", todo.ID)
			}
			seen[todo.ID] = true
		}
	}

	// Pages past the end are empty, not an error.
	todos, total, err := repo.ListTodos(ctx, TodoFilter{OwnerID: owner.ID}, 4, 10)
	if err != nil {
		t.Fatalf("ListTodos past end failed: %v", err)
	}
	if total != 25 || len(todos) != 0 {
		t.Errorf("Expected empty page with total 25, got %d todos, total %d", len(todos), total)
	}
}

func TestIntegrationTodoRepository_ListTodos_TagFilter(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "tags")

	tagged := testutil.NewTestTodo(t, owner.ID, "tagged")
	tagged.Tags = []string{"work", "urgent"}
	untagged := testutil.NewTestTodo(t, owner.ID, "untagged")

	for _, todo := range []*model.Todo{tagged, untagged} {
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}

	todos, total, err := repo.ListTodos(ctx, TodoFilter{OwnerID: owner.ID, Tag: "work"}, 1, 10)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}

	if total != 1 || len(todos) != 1 {
		t.Fatalf("Expected exactly one match, got %d todos, total %d", len(todos), total)
	}
	if todos[0].ID != tagged.ID {
		t.Errorf("Expected todo %s, got %s", tagged.ID, todos[0].ID)
	}
}

func TestIntegrationTodoRepository_UpdateTodo(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "update")

	todo := testutil.NewTestTodo(t, owner.ID, "Original")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	todo.Title = "Updated"
	todo.Done = true
	todo.Tags = []string{"done"}
	todo.UpdatedAt = time.Now().UTC()

	updated, err := repo.UpdateTodo(ctx, todo)
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}

	if updated.Title != "Updated" {
		t.Errorf("Title not updated: got %q", updated.Title)
	}
	if !updated.Done {
		t.Error("Done flag not updated")
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "done" {
		t.Errorf("Tags not updated: got %v", updated.Tags)
	}
}

func TestIntegrationTodoRepository_UpdateTodo_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	alice := createTestOwner(t, ctx, repo, "alice")
	bob := createTestOwner(t, ctx, repo, "bob")

	todo := testutil.NewTestTodo(t, alice.ID, "Alice's todo")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	hijack := *todo
	hijack.OwnerID = bob.ID
	hijack.Title = "Hijacked"

	_, err := repo.UpdateTodo(ctx, &hijack)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound, got %v", err)
	}

	// Alice's row is untouched.
	retrieved, err := repo.GetTodo(ctx, todo.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}
	if retrieved.Title != "Alice's todo" {
		t.Errorf("Foreign update changed the row: got %q", retrieved.Title)
	}
}

func TestIntegrationTodoRepository_DeleteTodo(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "delete")

	todo := testutil.NewTestTodo(t, owner.ID, "Ephemeral")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	if err := repo.DeleteTodo(ctx, todo.ID, owner.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	_, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound after delete, got %v", err)
	}

	// Second delete reports not found instead of succeeding silently.
	err = repo.DeleteTodo(ctx, todo.ID, owner.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func TestIntegrationTodoRepository_DeleteTodo_ForeignOwner(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	alice := createTestOwner(t, ctx, repo, "alice")
	bob := createTestOwner(t, ctx, repo, "bob")

	todo := testutil.NewTestTodo(t, alice.ID, "Alice's todo")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	err := repo.DeleteTodo(ctx, todo.ID, bob.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound, got %v", err)
	}

	if _, err := repo.GetTodo(ctx, todo.ID, alice.ID); err != nil {
		t.Errorf("Foreign delete removed the row: %v", err)
	}
}

func TestIntegrationTodoRepository_CascadeOnUserDelete(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)
	owner := createTestOwner(t, ctx, repo, "cascade")

	todo := testutil.NewTestTodo(t, owner.ID, "Orphan candidate")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected cascade to remove todo, got %v", err)
	}
}

func createTestOwner(t *testing.T, ctx context.Context, repo *Repository, prefix string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, prefix)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return user
}
