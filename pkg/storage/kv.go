package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/upright/escrow/pkg/kvstore"
	"github.com/upright/escrow/pkg/models"
)

// Logical key names in the underlying blob store. The upright_ prefix
// namespaces the application's keys within a shared table or directory.
const (
	usersKey        = "upright_users"
	sessionKey      = "upright_user"
	transactionsKey = "upright_transactions"
)

// KV implements Storage over a kvstore.Store, persisting each collection as a
// single named JSON document.
type KV struct {
	Blobs kvstore.Store
}

// NewKV creates a new KV storage layer over the given blob store.
func NewKV(blobs kvstore.Store) *KV {
	return &KV{Blobs: blobs}
}

// Make sure we conform to the interface
var _ Storage = (*KV)(nil)

// ListTransactions retrieves the transaction collection. An empty collection
// is returned when nothing has been persisted yet.
func (s *KV) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.load(ctx, transactionsKey, &txs); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

// SaveTransactions replaces the transaction collection.
func (s *KV) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	if err := s.save(ctx, transactionsKey, txs); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

// ListUsers retrieves the user directory.
func (s *KV) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.load(ctx, usersKey, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// SaveUsers replaces the user directory.
func (s *KV) SaveUsers(ctx context.Context, users []models.User) error {
	if err := s.save(ctx, usersKey, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// GetSession returns the currently persisted session, or ErrNoSession when
// the session record is absent or has been cleared.
func (s *KV) GetSession(ctx context.Context) (*models.User, error) {
	raw, err := s.Blobs.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	// A cleared session is stored as a JSON null.
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrNoSession
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &user, nil
}

// SetSession replaces the current session record.
func (s *KV) SetSession(ctx context.Context, user *models.User) error {
	if err := s.save(ctx, sessionKey, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession removes the current session record.
func (s *KV) ClearSession(ctx context.Context) error {
	if err := s.Blobs.Set(ctx, sessionKey, json.RawMessage("null")); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// load unmarshals the blob under key into out, leaving out untouched when the
// key has never been written.
func (s *KV) load(ctx context.Context, key string, out any) error {
	raw, err := s.Blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *KV) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Blobs.Set(ctx, key, raw)
}
