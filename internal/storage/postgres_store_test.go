// ABOUTME: Tests for the Postgres blob store.
// ABOUTME: Runs only when WUPY_TEST_POSTGRES_DSN points at a disposable database.
package storage

import (
	"context"
	"os"
	"testing"
)

func TestPostgresStoreConformance(t *testing.T) {
	dsn := os.Getenv("WUPY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WUPY_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore error: %v", err)
	}
	defer func() { _ = store.Close() }()

	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM kv WHERE key IN ('wupy-posts', 'other')`)
	})

	exerciseBlobStore(t, store)
}
