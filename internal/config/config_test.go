// File path: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIProvider != "auto" {
		t.Fatalf("default provider = %q, want auto", cfg.APIProvider)
	}
	if cfg.Folder != "" || cfg.APIKey != "" {
		t.Fatalf("expected empty defaults, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	saved, err := store.Save(Config{Folder: "/rtl/project", APIProvider: "anthropic"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Folder != "/rtl/project" {
		t.Fatalf("saved folder = %q", saved.Folder)
	}

	if _, err := store.Save(Config{Model: "claude-sonnet-4-5"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Folder != "/rtl/project" || cfg.APIProvider != "anthropic" || cfg.Model != "claude-sonnet-4-5" {
		t.Fatalf("merge lost fields: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Save(Config{Folder: "/from/file"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("FABB_FOLDER", "/from/env")
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Folder != "/from/env" {
		t.Fatalf("folder = %q, want env override", cfg.Folder)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Save(Config{APIKey: "sk-test"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
}
