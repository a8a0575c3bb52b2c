// ABOUTME: Configuration management for wupy with YAML config loading.
// ABOUTME: Handles identity, storage backend, notification and logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/wupy/internal/models"
)

// Defaults for the local user.
const (
	DefaultUserID     = "current-user"
	DefaultUserName   = "Tu Usuario"
	DefaultUserAvatar = "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=400"
)

// Config stores wupy configuration loaded from ~/.config/wupy/config.yaml.
type Config struct {
	User          UserConfig         `yaml:"user"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
	Log           LogConfig          `yaml:"log"`
}

// UserConfig is the identity used for every action.
type UserConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

// StorageConfig selects where the feed is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, redis, postgres
	DSN     string `yaml:"dsn"`     // path or URL, backend-specific
}

// NotificationConfig controls desktop notification delivery.
type NotificationConfig struct {
	Desktop *bool `yaml:"desktop,omitempty"` // nil means enabled
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Author returns the configured user with defaults applied.
func (c *Config) Author() models.Author {
	a := models.Author{ID: c.User.ID, Name: c.User.Name, Avatar: c.User.Avatar}
	if a.ID == "" {
		a.ID = DefaultUserID
	}
	if a.Name == "" {
		a.Name = DefaultUserName
	}
	if a.Avatar == "" {
		a.Avatar = DefaultUserAvatar
	}
	return a
}

// DesktopEnabled reports whether desktop notifications may be used at all.
func (c *Config) DesktopEnabled() bool {
	return c.Notifications.Desktop == nil || *c.Notifications.Desktop
}

// StorageBackend returns the configured backend, defaulting to file.
func (c *Config) StorageBackend() string {
	if c.Storage.Backend == "" {
		return "file"
	}
	return c.Storage.Backend
}

// StorageDSN returns the backend DSN with ~ expanded for path-based backends.
func (c *Config) StorageDSN() (string, error) {
	switch c.StorageBackend() {
	case "file", "sqlite":
		return ExpandPath(c.Storage.DSN)
	default:
		return c.Storage.DSN, nil
	}
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// LogFile returns the log file path, defaulting to wupy.log in the data dir.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wupy.log"), nil
}

// DataDir returns the default data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "wupy"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "wupy", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
