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
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/oauth2"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/internal/ui"
	"github.com/benchify/benchify/pkg/auth"
)

// runLogin executes the 'login' CLI command, authenticating the user via the
// OAuth device authorization flow.
//
// If valid credentials are already cached the command is a no-op unless
// --force is given.
//
// Flags:
//   - --force: Discard cached credentials and log in again
//
// Examples:
//
//	benchify login            Log in (opens browser)
//	benchify login --force    Re-authenticate even if already logged in
func runLogin(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	force := fs.Bool("force", false, "Discard cached credentials and log in again")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify login [options]

Description:
  Authenticate with the benchify service using your browser.

  The command shows a verification URL and a short code, opens the URL
  in your default browser, and waits for you to approve the login.
  Credentials are cached in the benchify data directory (default
  ~/.benchify/) so later commands do not prompt again.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # First-time login
  benchify login

  # Switch accounts
  benchify login --force

Notes:
  On a machine without a browser (SSH session, container), open the
  printed URL on any other device and enter the code there.

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	logger := newLogger(globals)

	store, err := tokenStore(cfg)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if !*force {
		if tokens, err := store.Load(); err == nil && tokens.Valid(time.Now()) {
			if identity, err := auth.DecodeIdentity(tokens.IDToken); err == nil {
				ui.Successf("Already logged in as %s", identity.DisplayName())
				ui.Infof("Run '%s' to re-authenticate.", ui.Cyan.Sprint("benchify login --force"))
				return
			}
		}
	}

	ctx := context.Background()
	tokens, identity, err := loginFlow(ctx, cfg, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if err := store.Save(tokens); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot save credentials",
			fmt.Sprintf("Failed to write %s", store.Path()),
			"Check permissions on the benchify data directory",
			err,
		), globals.JSON)
	}

	ui.Successf("Logged in as %s", identity.DisplayName())
}

// loginFlow runs the device authorization flow end to end: prompt, browser,
// polling, ID token verification, and claims decoding.
//
// Shared by 'login' and by 'analyze' when no valid credentials are cached.
// The verification prompt is always shown: the flow cannot complete without
// the user seeing the code, so quiet mode must not reach this point without
// it (see ensureTokens).
func loginFlow(ctx context.Context, cfg *Config, logger *slog.Logger) (*auth.Tokens, *auth.Identity, error) {
	authCfg := auth.Config{
		Domain:   cfg.Auth.Domain,
		ClientID: cfg.Auth.ClientID,
		Scopes:   cfg.Auth.Scopes,
	}

	flow := auth.NewDeviceFlow(authCfg, logger)
	flow.Prompt = func(resp *oauth2.DeviceAuthResponse) {
		ui.Info("1. On your computer or mobile device navigate to:")
		ui.Infof("   %s", ui.Cyan.Sprint(resp.VerificationURIComplete))
		ui.Info("2. Enter the following code:")
		ui.Infof("   %s", ui.Cyan.Sprint(resp.UserCode))
		fmt.Println()

		// Best effort; the URL is printed either way.
		if err := auth.OpenBrowser(resp.VerificationURIComplete); err != nil {
			logger.Debug("auth.browser.open_failed", "err", err)
		}

		ui.Info("Waiting for approval ...")
	}

	tokens, err := flow.Login(ctx)
	if err != nil {
		return nil, nil, errors.NewAuthError(
			"Login failed",
			"The device authorization flow did not complete",
			"Try again with 'benchify login'. Check your network if the problem persists",
			err,
		)
	}

	if err := auth.VerifyIDToken(ctx, authCfg, nil, tokens.IDToken); err != nil {
		return nil, nil, errors.NewAuthError(
			"Cannot verify login",
			"The identity provider returned a token that failed verification",
			"Try again with 'benchify login'. If the problem persists, report it",
			err,
		)
	}

	identity, err := auth.DecodeIdentity(tokens.IDToken)
	if err != nil {
		return nil, nil, errors.NewInternalError(
			"Cannot decode identity",
			"The verified ID token could not be decoded",
			"This is a bug. Please report it",
			err,
		)
	}

	return tokens, identity, nil
}

// ensureTokens returns valid cached tokens, or runs the login flow when the
// cache is missing or expired. The second return reports whether a fresh
// login happened (so analyze can greet the user once, not on every run).
func ensureTokens(ctx context.Context, cfg *Config, logger *slog.Logger, globals GlobalFlags) (*auth.Tokens, *auth.Identity, bool, error) {
	store, err := tokenStore(cfg)
	if err != nil {
		return nil, nil, false, err
	}

	if tokens, err := store.Load(); err == nil && tokens.Valid(time.Now()) {
		identity, err := auth.DecodeIdentity(tokens.IDToken)
		if err == nil {
			return tokens, identity, false, nil
		}
		logger.Debug("auth.cache.decode_failed", "err", err)
	}

	// The device flow needs to show the user a verification code. In quiet
	// or JSON mode nothing would be printed and the poll would hang until
	// the code expires, so fail fast instead.
	if globals.Quiet || globals.JSON {
		return nil, nil, false, errors.NewAuthError(
			"Not logged in",
			"No valid cached credentials, and the interactive login cannot run in quiet or JSON mode",
			"Run 'benchify login' first, then retry",
			nil,
		)
	}

	tokens, identity, err := loginFlow(ctx, cfg, logger)
	if err != nil {
		return nil, nil, false, err
	}

	if err := store.Save(tokens); err != nil {
		// Login succeeded; a failed cache write only costs the next run.
		ui.Warningf("Could not cache credentials: %v", err)
	}

	return tokens, identity, true, nil
}
