// ABOUTME: Storage validation for the setup wizard.
// ABOUTME: Opens the chosen backend and pings it, then releases it.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/wupy/internal/config"
	"github.com/2389-research/wupy/internal/storage"
)

// ValidateStorage checks that the backend can be opened and reached.
// The context allows cancellation when the user quits during validation.
func ValidateStorage(ctx context.Context, backend, dsn string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cfg := config.Config{Storage: config.StorageConfig{Backend: backend, DSN: dsn}}
	dsn, err := cfg.StorageDSN()
	if err != nil {
		return err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, storage.Options{Backend: backend, DSN: dsn, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend(), err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("%s storage unreachable: %w", cfg.StorageBackend(), err)
	}
	return nil
}
