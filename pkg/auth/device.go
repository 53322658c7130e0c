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

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2"
)

// PromptFunc is called once the provider has issued a device code, so the
// CLI can show the verification URL and user code and open a browser. The
// flow then blocks polling for approval.
type PromptFunc func(resp *oauth2.DeviceAuthResponse)

// DeviceFlow runs the OAuth 2.0 Device Authorization Grant.
type DeviceFlow struct {
	cfg    Config
	logger *slog.Logger

	// Prompt is invoked with the device authorization response before
	// polling starts. Optional.
	Prompt PromptFunc

	httpClient *http.Client
}

// NewDeviceFlow creates a DeviceFlow for the given provider configuration.
// A nil logger falls back to slog.Default.
func NewDeviceFlow(cfg Config, logger *slog.Logger) *DeviceFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceFlow{cfg: cfg, logger: logger}
}

// SetHTTPClient overrides the HTTP client used for provider requests.
// Tests use this to reach a fake provider.
func (f *DeviceFlow) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// Login runs the full device flow and returns verified-ready tokens.
//
// The device code request is retried on transient failures. Polling for the
// user's approval honors the provider's reported interval, including
// authorization_pending and slow_down responses, and aborts when ctx is
// cancelled or the device code expires.
func (f *DeviceFlow) Login(ctx context.Context) (*Tokens, error) {
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}
	oc := f.cfg.oauth2Config()

	f.logger.Debug("auth.device.start", "domain", f.cfg.Domain, "client_id", f.cfg.ClientID)

	da, err := retry.DoWithData(
		func() (*oauth2.DeviceAuthResponse, error) {
			return oc.DeviceAuth(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}

	f.logger.Debug("auth.device.code_issued",
		"user_code", da.UserCode,
		"verification_uri", da.VerificationURI,
		"interval_seconds", da.Interval,
	)

	if f.Prompt != nil {
		f.Prompt(da)
	}

	tok, err := oc.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("wait for device authorization: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("token response missing id_token")
	}

	f.logger.Debug("auth.device.authorized")

	return &Tokens{
		IDToken:     idToken,
		AccessToken: tok.AccessToken,
		FetchedAt:   time.Now(),
	}, nil
}
