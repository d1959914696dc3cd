package storage

import (
	"context"
	"errors"
)

// Document keys. Each key names one serialized document; the full document is
// the unit of every read and write.
const (
	KeyAlerts      = "alerts"
	KeyHoldings    = "coinz"
	KeyPreferences = "pref"
)

var (
	// ErrNotConfigured indicates the backend was not initialised.
	ErrNotConfigured = errors.New("storage: backend not configured")
)

// Backend abstracts document persistence. Implementations store each key as a
// single serialized document; partial updates are not supported.
type Backend interface {
	// Read returns the document stored under key. The second return value is
	// false when no document exists; that is not an error.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	// Write replaces the document stored under key.
	Write(ctx context.Context, key string, body []byte) error
}
