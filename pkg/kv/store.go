package kv

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxKeyLength is the maximum allowed key length in characters.
	MaxKeyLength = 1000

	// MaxValueSize is the maximum allowed serialized value size in bytes (1MB).
	MaxValueSize = 1024 * 1024
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is the storage abstraction for the key-value service.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error;
	// the return value reports whether anything was removed.
	Delete(key string) (bool, error)

	// Keys returns all stored keys in sorted order.
	Keys() ([]string, error)

	// Clear removes all entries.
	Clear() error

	// Len returns the number of stored entries.
	Len() (int, error)

	// Close releases any underlying resources.
	Close() error
}

// KeyError describes a key that failed validation.
type KeyError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// ValueError describes a value that failed validation.
type ValueError struct {
	Size   int
	Reason string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value (%d bytes): %s", e.Size, e.Reason)
}

// ValidateKey checks a key against the storage constraints: non-empty,
// at most MaxKeyLength characters, and free of path-traversal characters.
func ValidateKey(key string) error {
	if key == "" {
		return &KeyError{Key: key, Reason: "key must not be empty"}
	}
	if len(key) > MaxKeyLength {
		return &KeyError{Key: truncate(key, 64), Reason: fmt.Sprintf("key exceeds %d characters", MaxKeyLength)}
	}
	if strings.Contains(key, "..") {
		return &KeyError{Key: key, Reason: "key must not contain '..'"}
	}
	if strings.ContainsAny(key, `/\`) {
		return &KeyError{Key: key, Reason: "key must not contain path separators"}
	}
	return nil
}

// ValidateValue checks a serialized value against the size bound.
func ValidateValue(value []byte) error {
	if len(value) > MaxValueSize {
		return &ValueError{Size: len(value), Reason: fmt.Sprintf("value exceeds %d bytes", MaxValueSize)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
