// ABOUTME: Tests for wupy configuration loading and path expansion.
// ABOUTME: Covers YAML parsing, defaults, path expansion, and save/load.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde slash", "~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"relative", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	author := cfg.Author()
	if author.ID != DefaultUserID || author.Name != DefaultUserName || author.Avatar != DefaultUserAvatar {
		t.Errorf("unexpected default author %+v", author)
	}
	if cfg.StorageBackend() != "file" {
		t.Errorf("StorageBackend() = %q, want file", cfg.StorageBackend())
	}
	if !cfg.DesktopEnabled() {
		t.Error("expected desktop notifications enabled by default")
	}
	if cfg.LogLevel() != "info" {
		t.Errorf("LogLevel() = %q, want info", cfg.LogLevel())
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "wupy")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configData := `user:
  id: "u-42"
  name: "gopher"
storage:
  backend: "sqlite"
  dsn: "~/feeds/wupy.db"
notifications:
  desktop: false
log:
  level: "debug"
  file: "/tmp/wupy-test.log"
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configData), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	author := cfg.Author()
	if author.ID != "u-42" || author.Name != "gopher" {
		t.Errorf("unexpected author %+v", author)
	}
	if author.Avatar != DefaultUserAvatar {
		t.Errorf("expected default avatar, got %q", author.Avatar)
	}
	if cfg.StorageBackend() != "sqlite" {
		t.Errorf("StorageBackend() = %q, want sqlite", cfg.StorageBackend())
	}

	home, _ := os.UserHomeDir()
	dsn, err := cfg.StorageDSN()
	if err != nil {
		t.Fatalf("StorageDSN() error: %v", err)
	}
	if want := filepath.Join(home, "feeds", "wupy.db"); dsn != want {
		t.Errorf("StorageDSN() = %q, want %q", dsn, want)
	}
	if cfg.DesktopEnabled() {
		t.Error("expected desktop notifications disabled")
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if got, _ := cfg.LogFile(); got != "/tmp/wupy-test.log" {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "wupy")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("user: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{
		User:    UserConfig{Name: "saved-name", Avatar: "https://example.com/me.png"},
		Storage: StorageConfig{Backend: "redis", DSN: "redis://localhost:6379/2"},
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.User.Name != "saved-name" {
		t.Errorf("expected name 'saved-name', got %q", loaded.User.Name)
	}
	if loaded.Storage.Backend != "redis" {
		t.Errorf("expected backend 'redis', got %q", loaded.Storage.Backend)
	}
	dsn, _ := loaded.StorageDSN()
	if dsn != "redis://localhost:6379/2" {
		t.Errorf("StorageDSN() = %q", dsn)
	}
}

func TestDefaultPaths(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(dataHome, "wupy"); dir != want {
		t.Errorf("DataDir() = %q, want %q", dir, want)
	}

	cfg := &Config{}
	logFile, err := cfg.LogFile()
	if err != nil {
		t.Fatalf("LogFile() error: %v", err)
	}
	if want := filepath.Join(dataHome, "wupy", "wupy.log"); logFile != want {
		t.Errorf("LogFile() = %q, want %q", logFile, want)
	}
}
