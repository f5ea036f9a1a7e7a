// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tickbox/tickbox/internal/auth"
	"github.com/tickbox/tickbox/internal/model"
	"github.com/tickbox/tickbox/internal/repository"
)

// User service errors.
var (
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailTaken       = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the API cannot be used to enumerate registered addresses.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Minimal sanity check, full RFC 5322 validation is not the goal.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// dummyPasswordHash is verified against on the unknown-email branch of Login
// so that branch costs an argon2 computation too. Without it, response
// timing would reveal whether an email is registered.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"

const (
	maxNameLength  = 100
	maxEmailLength = 254
)

// UserService handles registration and login.
type UserService struct {
	repo   *repository.Repository
	tokens *auth.TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, tokens *auth.TokenIssuer) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the registration input.
func (in *RegisterInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > maxNameLength {
		return ErrInvalidName
	}
	if len(in.Email) > maxEmailLength || !emailRegex.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	// Any non-empty password is accepted; strength policy is the client's
	// concern, not a server-side gate.
	if in.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Register creates a new user with a hashed password.
// Returns ErrEmailTaken if the email is already registered.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginResult holds the issued token for a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
}

// Login verifies credentials and issues a bearer token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn the same hashing cost as the known-email path.
			_, _ = auth.VerifyPassword(password, dummyPasswordHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// A malformed stored hash counts as a failed verification, not a 500.
	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: s.tokens.TTL(),
	}, nil
}

// normalizeEmail lowercases and trims an email address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
