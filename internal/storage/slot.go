// ABOUTME: Typed JSON slot over a BlobStore key with read-with-default semantics.
// ABOUTME: Missing or corrupt blobs degrade to the caller's default and are only logged.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Slot reads and writes a single JSON-encoded value under one key.
type Slot[T any] struct {
	store  BlobStore
	key    string
	logger *log.Logger
}

// NewSlot binds a slot to key in store. A nil logger uses the default logger.
func NewSlot[T any](store BlobStore, key string, logger *log.Logger) *Slot[T] {
	if logger == nil {
		logger = log.Default()
	}
	return &Slot[T]{store: store, key: key, logger: logger}
}

// Key returns the storage key this slot is bound to.
func (s *Slot[T]) Key() string {
	return s.key
}

// Read returns the stored value, or def when the blob is missing, unreadable, or corrupt.
func (s *Slot[T]) Read(ctx context.Context, def T) T {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("slot empty, using default", "key", s.key)
		return def
	}
	if err != nil {
		s.logger.Warn("slot read failed, using default", "key", s.key, "err", err)
		return def
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("slot holds unparseable data, using default", "key", s.key, "err", err)
		return def
	}
	return value
}

// Write serializes value and replaces the stored blob.
func (s *Slot[T]) Write(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return err
	}
	return nil
}
