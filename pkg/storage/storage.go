package storage

import (
	"context"
	"errors"

	"github.com/upright/escrow/pkg/models"
)

// ErrNoSession is returned when no session record is currently persisted.
var ErrNoSession = errors.New("no active session")

// TransactionStore defines the persistence contract for the transaction
// collection. Lifecycle operations are read-modify-write sequences: load the
// full collection, apply the change, save the full collection. The store is
// the only canonical copy; callers must not hold a long-lived cache.
type TransactionStore interface {
	// ListTransactions retrieves the full transaction collection in insertion order.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	// SaveTransactions replaces the full transaction collection.
	SaveTransactions(ctx context.Context, txs []models.Transaction) error
}

// UserDirectory defines the persistence contract for registered accounts.
type UserDirectory interface {
	// ListUsers retrieves the full user directory in registration order.
	ListUsers(ctx context.Context) ([]models.User, error)

	// SaveUsers replaces the full user directory.
	SaveUsers(ctx context.Context, users []models.User) error
}

// SessionStore defines the persistence contract for the single current session.
type SessionStore interface {
	// GetSession returns the current session's user, or ErrNoSession.
	GetSession(ctx context.Context) (*models.User, error)

	// SetSession replaces the current session.
	SetSession(ctx context.Context, user *models.User) error

	// ClearSession removes the current session.
	ClearSession(ctx context.Context) error
}

// Storage composes all storage operations. Components should depend on the
// more granular interfaces instead of this one.
type Storage interface {
	TransactionStore
	UserDirectory
	SessionStore
}
