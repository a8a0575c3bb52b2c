// ABOUTME: Tests for the Redis blob store against an in-process miniredis server.
// ABOUTME: Covers conformance and key namespacing.
package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStoreConformance(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	defer func() { _ = store.Close() }()

	exerciseBlobStore(t, store)
}

func TestRedisStorePrefixesKeys(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Set(context.Background(), "wupy-posts", []byte("[]")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := mr.Get(RedisKeyPrefix + "wupy-posts")
	if err != nil {
		t.Fatalf("miniredis Get error: %v", err)
	}
	if got != "[]" {
		t.Errorf("stored value = %q, want %q", got, "[]")
	}
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	if _, err := NewRedisStore("not a url"); err == nil {
		t.Error("expected error for invalid redis url")
	}
}
