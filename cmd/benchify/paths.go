// Copyright 2025 Benchify
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/pkg/auth"
)

// dataDirFromConfig resolves the credential storage directory with
// precedence: BENCHIFY_DATA_DIR > config data_dir > ~/.benchify.
func dataDirFromConfig(cfg *Config) (string, error) {
	if envDir := os.Getenv("BENCHIFY_DATA_DIR"); envDir != "" {
		return absPath(envDir)
	}

	if cfg != nil && cfg.DataDir != "" {
		return absPath(cfg.DataDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot determine home directory",
			"Operating system did not provide user home directory path",
			"Check your system configuration or set HOME environment variable",
			err,
		)
	}
	return filepath.Join(home, defaultConfigDir), nil
}

// tokenStore returns the credential store rooted at the resolved data dir.
func tokenStore(cfg *Config) (*auth.Store, error) {
	dir, err := dataDirFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return auth.NewStore(dir), nil
}

func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
