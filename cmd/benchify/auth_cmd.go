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
	"time"

	flag "github.com/spf13/pflag"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/internal/output"
	"github.com/benchify/benchify/internal/ui"
	"github.com/benchify/benchify/pkg/auth"
)

// runLogout executes the 'logout' CLI command, deleting cached credentials.
func runLogout(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify logout

Description:
  Delete the cached credentials from the benchify data directory.

  This only removes the local token cache. It does not revoke the
  session at the identity provider.

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	store, err := tokenStore(cfg)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if _, err := os.Stat(store.Path()); os.IsNotExist(err) {
		ui.Info("No cached credentials found. Already logged out.")
		return
	}

	if err := store.Clear(); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot delete credentials",
			fmt.Sprintf("Failed to remove %s", store.Path()),
			"Check permissions on the benchify data directory",
			err,
		), globals.JSON)
	}

	ui.Success("Logged out. Cached credentials deleted.")
}

// WhoamiResult represents the logged-in identity for JSON output.
type WhoamiResult struct {
	Subject   string    `json:"subject"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Expiry    time.Time `json:"expiry"`
	Expired   bool      `json:"expired"`
	TokenPath string    `json:"token_path"`
}

// runWhoami executes the 'whoami' CLI command, displaying the identity from
// the cached credentials.
//
// Global flags from main:
//   - --json: Output results as JSON (from globals.JSON)
//
// Examples:
//
//	benchify whoami           Display formatted identity
//	benchify whoami --json    Output as JSON for programmatic use
func runWhoami(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify whoami [options]

Description:
  Show the identity from the cached login credentials, and whether
  they are still valid.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  benchify whoami
  benchify whoami --json | jq '.email'

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	store, err := tokenStore(cfg)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	tokens, err := store.Load()
	if err != nil {
		errors.FatalError(errors.NewAuthError(
			"Not logged in",
			"No cached credentials found",
			"Run 'benchify login' to authenticate",
			err,
		), globals.JSON)
	}

	identity, err := auth.DecodeIdentity(tokens.IDToken)
	if err != nil {
		errors.FatalError(errors.NewAuthError(
			"Cached credentials are unreadable",
			"The cached token could not be decoded",
			"Run 'benchify login --force' to re-authenticate",
			err,
		), globals.JSON)
	}

	result := &WhoamiResult{
		Subject:   identity.Subject,
		Name:      identity.Name,
		Email:     identity.Email,
		Expiry:    identity.Expiry,
		Expired:   !tokens.Valid(time.Now()),
		TokenPath: store.Path(),
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode identity as JSON",
				"JSON encoding failed unexpectedly",
				"This is a bug. Please report it",
				err,
			), globals.JSON)
		}
		return
	}

	ui.Header("Logged-in Identity")
	if result.Name != "" {
		fmt.Printf("%s     %s\n", ui.Label("Name:"), result.Name)
	}
	if result.Email != "" {
		fmt.Printf("%s    %s\n", ui.Label("Email:"), result.Email)
	}
	fmt.Printf("%s  %s\n", ui.Label("Subject:"), result.Subject)
	fmt.Printf("%s   %s\n", ui.Label("Expiry:"), ui.DimText(result.Expiry.Local().Format(time.RFC1123)))

	if result.Expired {
		fmt.Println()
		ui.Warning("Credentials have expired. Run 'benchify login' to refresh them.")
	}
}
