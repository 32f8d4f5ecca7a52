// File path: internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shahran-n/Bug-Buster/internal/common"
)

// Config holds the user-facing assistant settings. It mirrors the JSON
// document persisted under the state directory and survives restarts.
type Config struct {
	Folder      string `json:"folder"`
	APIKey      string `json:"api_key"`
	APIProvider string `json:"api_provider"`
	Model       string `json:"model"`
}

func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.Folder) != "" {
		result.Folder = strings.TrimSpace(override.Folder)
	}
	if strings.TrimSpace(override.APIKey) != "" {
		result.APIKey = strings.TrimSpace(override.APIKey)
	}
	if strings.TrimSpace(override.APIProvider) != "" {
		result.APIProvider = strings.TrimSpace(override.APIProvider)
	}
	if strings.TrimSpace(override.Model) != "" {
		result.Model = strings.TrimSpace(override.Model)
	}
	return result
}

// Store reads and writes the config file. Writes go through a temp file
// rename so a crashed save never leaves a half-written document.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore uses the given path, or DefaultPath when empty.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &Store{path: path}, nil
}

// DefaultPath is ~/.fabb/config.json, overridable with FABB_CONFIG_FILE.
func DefaultPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv("FABB_CONFIG_FILE")); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fabb", "config.json"), nil
}

// Load reads the persisted config and applies environment overrides.
// A missing file is not an error, defaults come back instead.
func (s *Store) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Config{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", s.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", s.path, err)
	}

	cfg = cfg.Merge(configFromEnv())
	if cfg.APIProvider == "" {
		cfg.APIProvider = "auto"
	}
	return cfg, nil
}

// Save merges the update over the stored document and persists it.
func (s *Store) Save(update Config) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Config{}
	if data, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			common.Logger().Warn("config: discarding unreadable config file", "path", s.path, "error", err)
			cfg = Config{}
		}
	}
	cfg = cfg.Merge(update)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return Config{}, fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return Config{}, fmt.Errorf("encode config: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return Config{}, fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return Config{}, fmt.Errorf("replace config: %w", err)
	}
	common.Logger().Info("config: saved", "path", s.path)
	return cfg, nil
}

func configFromEnv() Config {
	cfg := Config{
		Folder:      os.Getenv("FABB_FOLDER"),
		APIProvider: os.Getenv("FABB_PROVIDER"),
		Model:       os.Getenv("FABB_MODEL"),
	}
	if key := os.Getenv("FABB_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	return cfg
}
