package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/tickbox/tickbox/internal/auth"
)

func TestRegisterInput_Validate(t *testing.T) {
	t.Parallel()

	valid := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "longenough"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input should pass: %v", err)
	}

	// Short passwords are fine; only empty ones are rejected.
	short := RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"}
	if err := short.Validate(); err != nil {
		t.Fatalf("two-character password should pass: %v", err)
	}

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"empty name", RegisterInput{Name: "", Email: "a@x.com", Password: "longenough"}, ErrInvalidName},
		{"blank name", RegisterInput{Name: "   ", Email: "a@x.com", Password: "longenough"}, ErrInvalidName},
		{"name too long", RegisterInput{Name: strings.Repeat("a", 101), Email: "a@x.com", Password: "longenough"}, ErrInvalidName},
		{"no at sign", RegisterInput{Name: "A", Email: "ax.com", Password: "longenough"}, ErrInvalidEmail},
		{"no domain dot", RegisterInput{Name: "A", Email: "a@xcom", Password: "longenough"}, ErrInvalidEmail},
		{"email with spaces", RegisterInput{Name: "A", Email: "a b@x.com", Password: "longenough"}, ErrInvalidEmail},
		{"empty password", RegisterInput{Name: "A", Email: "a@x.com", Password: ""}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.input.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTodoInput_Validate(t *testing.T) {
	t.Parallel()

	valid := TodoInput{Title: "Buy milk", Description: "2 liters"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input should pass: %v", err)
	}

	tests := []struct {
		name  string
		input TodoInput
		want  error
	}{
		{"empty title", TodoInput{Title: ""}, ErrTitleRequired},
		{"blank title", TodoInput{Title: "   "}, ErrTitleRequired},
		{"title too long", TodoInput{Title: strings.Repeat("t", 201)}, ErrTitleTooLong},
		{"description too long", TodoInput{Title: "ok", Description: strings.Repeat("d", 2001)}, ErrDescriptionTooLong},
		{"too many tags", TodoInput{Title: "ok", Tags: make([]string, 17)}, ErrTooManyTags},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.input.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got := normalizeTags([]string{" home ", "", "work", "  "})
	if len(got) != 2 || got[0] != "home" || got[1] != "work" {
		t.Errorf("unexpected tags: %v", got)
	}

	if got := normalizeTags(nil); got == nil || len(got) != 0 {
		t.Errorf("nil tags should normalize to empty slice, got %v", got)
	}
}

func TestDummyPasswordHash_Verifiable(t *testing.T) {
	t.Parallel()

	// The unknown-email branch of Login relies on this hash being
	// well-formed so the verification runs the full argon2 computation
	// instead of erroring out early.
	match, err := auth.VerifyPassword("any-password", dummyPasswordHash)
	if err != nil {
		t.Fatalf("dummy hash must parse as a valid PHC string: %v", err)
	}
	if match {
		t.Error("dummy hash must not match any real password")
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := normalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("unexpected normalization: %q", got)
	}
}
