package main

import (
	"path/filepath"
	"testing"
)

func TestDataDirFromConfig_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BENCHIFY_DATA_DIR", "")

	dir, err := dataDirFromConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("dataDirFromConfig() error = %v", err)
	}

	want := filepath.Join(home, ".benchify")
	if dir != want {
		t.Fatalf("dataDirFromConfig() = %q, want %q", dir, want)
	}
}

func TestDataDirFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("BENCHIFY_DATA_DIR", "/tmp/custom-benchify")

	dir, err := dataDirFromConfig(DefaultConfig())
	if err != nil {
		t.Fatalf("dataDirFromConfig() error = %v", err)
	}
	if dir != "/tmp/custom-benchify" {
		t.Fatalf("dataDirFromConfig() = %q, want %q", dir, "/tmp/custom-benchify")
	}
}

func TestDataDirFromConfig_ConfigValue(t *testing.T) {
	t.Setenv("BENCHIFY_DATA_DIR", "")

	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/from-config"

	dir, err := dataDirFromConfig(cfg)
	if err != nil {
		t.Fatalf("dataDirFromConfig() error = %v", err)
	}
	if dir != "/tmp/from-config" {
		t.Fatalf("dataDirFromConfig() = %q, want %q", dir, "/tmp/from-config")
	}
}

func TestTokenStore_PathUnderDataDir(t *testing.T) {
	t.Setenv("BENCHIFY_DATA_DIR", "/tmp/bdata")

	store, err := tokenStore(DefaultConfig())
	if err != nil {
		t.Fatalf("tokenStore() error = %v", err)
	}
	if store.Path() != "/tmp/bdata/tokens.json" {
		t.Fatalf("tokenStore().Path() = %q, want %q", store.Path(), "/tmp/bdata/tokens.json")
	}
}
