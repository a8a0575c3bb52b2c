// ABOUTME: Shared conformance checks run against every BlobStore backend.
// ABOUTME: Covers missing keys, overwrite, key isolation, and ping.
package storage

import (
	"context"
	"errors"
	"testing"
)

func exerciseBlobStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping error: %v", err)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "wupy-posts", []byte(`["first"]`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Set(ctx, "wupy-posts", []byte(`["second"]`)); err != nil {
		t.Fatalf("Set overwrite error: %v", err)
	}
	if err := store.Set(ctx, "other", []byte(`true`)); err != nil {
		t.Fatalf("Set other error: %v", err)
	}

	got, err := store.Get(ctx, "wupy-posts")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != `["second"]` {
		t.Errorf("Get = %s, want [\"second\"]", got)
	}

	other, err := store.Get(ctx, "other")
	if err != nil {
		t.Fatalf("Get other error: %v", err)
	}
	if string(other) != "true" {
		t.Errorf("Get other = %s, want true", other)
	}
}
