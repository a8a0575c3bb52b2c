// ABOUTME: Backend selection for blob storage.
// ABOUTME: Maps a configured backend name and DSN to a concrete BlobStore.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Backends lists the supported backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendPostgres}

// DefaultRedisURL is used when the redis backend has no DSN.
const DefaultRedisURL = "redis://localhost:6379/0"

// Options selects and locates a blob store.
type Options struct {
	Backend string // one of Backends; empty means file
	DSN     string // path for file/sqlite, URL for redis/postgres
	DataDir string // default location root for file/sqlite
}

// IsValidBackend returns true if name is a supported backend.
func IsValidBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Open creates the configured blob store.
func Open(ctx context.Context, opts Options) (BlobStore, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		dir := opts.DSN
		if dir == "" {
			dir = filepath.Join(opts.DataDir, "store")
		}
		return NewFileStore(dir)
	case BackendSQLite:
		path := opts.DSN
		if path == "" {
			path = filepath.Join(opts.DataDir, "wupy.db")
		}
		return NewSQLiteStore(ctx, path)
	case BackendRedis:
		url := opts.DSN
		if url == "" {
			url = DefaultRedisURL
		}
		return NewRedisStore(url)
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		return NewPostgresStore(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %s)", opts.Backend, strings.Join(Backends, ", "))
	}
}
