package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value has been stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persisted key-value blob contract. It is the system of record
// for the user directory, the current session, and the transaction collection,
// each stored as a single named JSON document.
//
// Writes are atomic per key; no ordering is guaranteed across keys.
type Store interface {
	// Get retrieves the JSON blob stored under key. It returns ErrKeyNotFound
	// if the key has never been written.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set replaces the JSON blob stored under key.
	Set(ctx context.Context, key string, value json.RawMessage) error
}
