// ABOUTME: File-based blob storage with one JSON file per key.
// ABOUTME: Writes go through renameio so a crash never leaves a half-written blob.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// FileStore stores each key as <dir>/<key>.json.
type FileStore struct {
	dir string // root directory for blob files
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is required")
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the blob for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the blob for key.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	if err := renameio.WriteFile(path, value, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Ping checks that the store directory exists or can be created.
func (s *FileStore) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("store dir not usable: %w", err)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
