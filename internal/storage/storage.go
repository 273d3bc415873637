// Package storage provides the durable key-value stores dashboards are
// persisted to.
//
// Every backend implements KV. Writes that exceed the backend's capacity
// return an error wrapping ErrQuotaExceeded so callers can free space and
// retry; reads of absent keys return ErrNotFound.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("key not found")

	// ErrQuotaExceeded is wrapped by Set when the backend is out of space.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key, replacing any previous value.
	// Returns an error wrapping ErrQuotaExceeded when out of space.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases the backend's resources.
	Close() error
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsQuotaExceeded reports whether err wraps ErrQuotaExceeded.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// quotaError wraps a backend error so that it matches ErrQuotaExceeded while
// keeping the original message and cause.
type quotaError struct {
	cause error
}

func (e *quotaError) Error() string {
	return fmt.Sprintf("%s: %v", ErrQuotaExceeded, e.cause)
}

func (e *quotaError) Unwrap() []error {
	return []error{ErrQuotaExceeded, e.cause}
}
