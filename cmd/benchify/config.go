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
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/benchify/benchify/internal/errors"
)

const (
	defaultConfigDir  = ".benchify"
	defaultConfigFile = "config.yaml"
	configVersion     = "1"

	defaultAPIBaseURL     = "https://benchify.cloud"
	defaultAnalyzeSeconds = 60
	defaultAuthDomain     = "benchify.us.auth0.com"
	defaultClientID       = "VessO49JLtBhlVXvwbCDkeXZX4mHNLFs"
)

// Config represents the ~/.benchify/config.yaml configuration file.
type Config struct {
	Version string     `yaml:"version"`
	API     APIConfig  `yaml:"api"`
	Auth    AuthConfig `yaml:"auth"`
	DataDir string     `yaml:"data_dir,omitempty"` // Credential storage override
}

// APIConfig contains analysis service settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"` // Analysis service URL
	// ExpectedSeconds is how long an analysis run typically takes. The
	// request timeout is five times this, to absorb above-average runs.
	ExpectedSeconds int `yaml:"expected_seconds"`
}

// AuthConfig contains identity provider settings.
type AuthConfig struct {
	Domain   string   `yaml:"domain"`    // Provider tenant domain
	ClientID string   `yaml:"client_id"` // OAuth client ID
	Scopes   []string `yaml:"scopes"`    // Requested scopes
}

// DefaultConfig returns a config pointing at the hosted benchify service.
//
// Environment variables can override these defaults after the config is
// loaded; see applyEnvOverrides.
func DefaultConfig() *Config {
	return &Config{
		Version: configVersion,
		API: APIConfig{
			BaseURL:         defaultAPIBaseURL,
			ExpectedSeconds: defaultAnalyzeSeconds,
		},
		Auth: AuthConfig{
			Domain:   defaultAuthDomain,
			ClientID: defaultClientID,
			Scopes:   []string{"openid", "profile", "email"},
		},
	}
}

// LoadConfig loads configuration from the specified path or the default
// location.
//
// A missing config file is not an error: the tool works out of the box with
// defaults, and most users never create one. An explicitly specified path
// that does not exist is an error, since the user asked for it.
//
// After loading, environment variables override file-based configuration.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if configPath == "" {
		configPath = os.Getenv("BENCHIFY_CONFIG_PATH")
		explicit = configPath != ""
	}
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.NewInternalError(
				"Cannot determine home directory",
				"Operating system did not provide user home directory path",
				"Check your system configuration or set HOME environment variable",
				err,
			)
		}
		configPath = filepath.Join(home, defaultConfigDir, defaultConfigFile)
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: Path comes from user config or discovery
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed - the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or delete it to use defaults", configPath),
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version '%s' is not supported (expected '%s')", cfg.Version, configVersion),
			fmt.Sprintf("Delete %s to regenerate defaults", configPath),
			nil,
		)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// SaveConfig writes the configuration to the specified path as YAML.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug. Please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions or run with appropriate privileges",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables take precedence over file values.
//
// Supported environment variables:
//   - BENCHIFY_API_URL: Override analysis service URL
//   - BENCHIFY_EXPECTED_SECONDS: Override expected analysis duration
//   - BENCHIFY_AUTH_DOMAIN: Override identity provider domain
//   - BENCHIFY_CLIENT_ID: Override OAuth client ID
//   - BENCHIFY_DATA_DIR: Override credential storage directory
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("BENCHIFY_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if secs := os.Getenv("BENCHIFY_EXPECTED_SECONDS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.API.ExpectedSeconds = n
		}
	}
	if domain := os.Getenv("BENCHIFY_AUTH_DOMAIN"); domain != "" {
		c.Auth.Domain = domain
	}
	if id := os.Getenv("BENCHIFY_CLIENT_ID"); id != "" {
		c.Auth.ClientID = id
	}
	if dir := os.Getenv("BENCHIFY_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
}
