// Copyright 2025 Benchify
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressConfig controls whether progress indicators are rendered.
type ProgressConfig struct {
	Enabled bool
}

// NewProgressConfig derives progress settings from the global flags.
// Quiet and JSON modes suppress all progress output.
func NewProgressConfig(globals GlobalFlags) ProgressConfig {
	return ProgressConfig{Enabled: !globals.Quiet && !globals.JSON}
}

// NewSpinner creates an indeterminate spinner writing to stderr, or nil when
// progress output is disabled.
func NewSpinner(cfg ProgressConfig, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// runWithSpinner executes fn while animating a spinner. With progress
// disabled, fn runs directly.
func runWithSpinner(cfg ProgressConfig, description string, fn func() error) error {
	bar := NewSpinner(cfg, description)
	if bar == nil {
		return fn()
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
