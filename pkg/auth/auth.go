// Package auth resolves who the current actor is. Accounts live in the
// persisted user directory; the single active session is its own persisted
// record. There are no credentials in this demonstration system, only
// identified actors.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/upright/escrow/pkg/models"
	"github.com/upright/escrow/pkg/storage"
)

// ErrUserNotFound is returned by Login when no directory entry matches the email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned by Register when the email is already in the directory.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidEmail is returned when the supplied email is not usable as an identity key.
var ErrInvalidEmail = errors.New("invalid email address")

// Service implements registration, login, logout, and current-actor lookup.
// Registration rewrites the whole directory after a duplicate scan, so mu
// serializes it; otherwise two concurrent registrations of one email could
// both pass the scan and both be saved.
type Service struct {
	Users    storage.UserDirectory
	Sessions storage.SessionStore
	Now      func() time.Time

	mu sync.Mutex
}

// New creates a Service over the given directory and session store.
func New(users storage.UserDirectory, sessions storage.SessionStore) *Service {
	return &Service{
		Users:    users,
		Sessions: sessions,
		Now:      time.Now,
	}
}

// Register creates a new account and logs it in. Duplicate emails are
// rejected: email is the authoritative matching key for transactions, so two
// accounts sharing one address would see each other's agreements.
func (s *Service) Register(ctx context.Context, email, name string, role models.UserRole) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = models.RoleBuyer
	}
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}
	for _, existing := range users {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := models.User{
		Id:        "user_" + uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: s.Now(),
	}

	users = append(users, user)
	if err := s.Users.SaveUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to persist new user: %w", err)
	}
	if err := s.Sessions.SetSession(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	return &user, nil
}

// Login looks the email up in the directory and makes it the current session.
func (s *Service) Login(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}

	for _, user := range users {
		if user.Email == email {
			if err := s.Sessions.SetSession(ctx, &user); err != nil {
				return nil, fmt.Errorf("failed to open session: %w", err)
			}
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", email, ErrUserNotFound)
}

// Logout clears the current session.
func (s *Service) Logout(ctx context.Context) error {
	return s.Sessions.ClearSession(ctx)
}

// CurrentActor returns the logged-in user, or storage.ErrNoSession.
func (s *Service) CurrentActor(ctx context.Context) (*models.User, error) {
	return s.Sessions.GetSession(ctx)
}
