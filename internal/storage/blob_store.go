// ABOUTME: Interface definition for named-blob persistence.
// ABOUTME: Defines the get/set contract every storage backend implements.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.Get when no blob exists for the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore persists opaque values under string keys.
type BlobStore interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the blob stored under key. Readers never observe a partial value.
	Set(ctx context.Context, key string, value []byte) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
