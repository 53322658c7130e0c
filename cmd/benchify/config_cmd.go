// Copyright 2025 Benchify
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@benchify.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/internal/output"
	"github.com/benchify/benchify/internal/ui"
)

// ConfigOutput represents the effective configuration for JSON output.
type ConfigOutput struct {
	Version string           `json:"version"`
	API     APIConfigOutput  `json:"api"`
	Auth    AuthConfigOutput `json:"auth"`
	DataDir string           `json:"data_dir"`
}

// APIConfigOutput represents analysis service settings for JSON output.
type APIConfigOutput struct {
	BaseURL         string `json:"base_url"`
	ExpectedSeconds int    `json:"expected_seconds"`
}

// AuthConfigOutput represents identity provider settings for JSON output.
type AuthConfigOutput struct {
	Domain   string   `json:"domain"`
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
}

// runConfigCmd executes the 'config' CLI command, displaying the effective
// configuration after defaults, file values, and environment overrides.
//
// Global flags from main:
//   - --json: Output results as JSON (from globals.JSON)
//
// Examples:
//
//	benchify config           Display formatted configuration
//	benchify config --json    Output as JSON for programmatic use
func runConfigCmd(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	initConfig := fs.Bool("init", false, "Write a starter config.yaml with the current defaults")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify config [options]

Description:
  Display the effective benchify configuration: built-in defaults,
  merged with ~/.benchify/config.yaml if present, with environment
  variable overrides applied last.

  With --init, write a config.yaml with the defaults so it can be
  edited. Refuses to overwrite an existing file.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show human-readable configuration
  benchify config

  # Pipe to jq for specific field extraction
  benchify config --json | jq '.api.base_url'

  # Create ~/.benchify/config.yaml for editing
  benchify config --init

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *initConfig {
		runConfigInit(configPath, globals)
		return
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	dataDir, err := dataDirFromConfig(cfg)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	result := &ConfigOutput{
		Version: cfg.Version,
		API: APIConfigOutput{
			BaseURL:         cfg.API.BaseURL,
			ExpectedSeconds: cfg.API.ExpectedSeconds,
		},
		Auth: AuthConfigOutput{
			Domain:   cfg.Auth.Domain,
			ClientID: cfg.Auth.ClientID,
			Scopes:   cfg.Auth.Scopes,
		},
		DataDir: dataDir,
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode configuration as JSON",
				"JSON encoding failed unexpectedly",
				"This is a bug. Please report it",
				err,
			), globals.JSON)
		}
		return
	}

	ui.Header("Benchify Configuration")
	ui.SubHeader("Analysis Service:")
	fmt.Printf("  %s      %s\n", ui.Label("Base URL:"), result.API.BaseURL)
	fmt.Printf("  %s  %ds\n", ui.Label("Expected time:"), result.API.ExpectedSeconds)
	fmt.Println()

	ui.SubHeader("Identity Provider:")
	fmt.Printf("  %s     %s\n", ui.Label("Domain:"), result.Auth.Domain)
	fmt.Printf("  %s  %s\n", ui.Label("Client ID:"), result.Auth.ClientID)
	fmt.Printf("  %s     %v\n", ui.Label("Scopes:"), result.Auth.Scopes)
	fmt.Println()

	fmt.Printf("%s  %s\n", ui.Label("Data Dir:"), ui.DimText(result.DataDir))
}

// runConfigInit writes a default config.yaml at the given path (or the
// default location) so users have a file to edit. An existing file is left
// untouched.
func runConfigInit(configPath string, globals GlobalFlags) {
	if configPath == "" {
		configPath = os.Getenv("BENCHIFY_CONFIG_PATH")
	}
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot determine home directory",
				"Operating system did not provide user home directory path",
				"Check your system configuration or set HOME environment variable",
				err,
			), globals.JSON)
		}
		configPath = filepath.Join(home, defaultConfigDir, defaultConfigFile)
	}

	if _, err := os.Stat(configPath); err == nil {
		errors.FatalError(errors.NewConfigError(
			"Configuration file already exists",
			fmt.Sprintf("%s is already present", configPath),
			"Edit the existing file, or delete it first to regenerate defaults",
			nil,
		), globals.JSON)
	}

	if err := SaveConfig(DefaultConfig(), configPath); err != nil {
		errors.FatalError(err, globals.JSON)
	}

	ui.Successf("Wrote %s", configPath)
}
