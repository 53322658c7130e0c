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

// Package api is the HTTP client for the hosted benchify analysis service.
//
// The service exposes a single operation: submit one function's source and
// receive a textual analysis report. Requests authenticate with a Bearer ID
// token obtained by pkg/auth.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// errorBodyLimit caps how much of an error response body is carried in a
// StatusError.
const errorBodyLimit = 512

// StatusError reports a non-2xx response from the analysis service.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("analysis service returned %d", e.StatusCode)
}

// IsAuthError reports whether err is a StatusError for a rejected credential.
func IsAuthError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// Client calls the benchify analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the service at baseURL. The timeout bounds
// each whole request, wait included; analysis runs take on the order of a
// minute, so callers pass a multiple of the expected duration.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Analyze submits functionSource for analysis and returns the service's
// report text.
//
// Transient failures (connection errors, 5xx) are retried; client errors are
// not. A 401/403 response satisfies IsAuthError so callers can suggest
// re-login.
func (c *Client) Analyze(ctx context.Context, bearerToken, functionSource string) (string, error) {
	endpoint := c.baseURL + "/analyze?" + url.Values{"test_func": {functionSource}}.Encode()

	c.logger.Debug("analyze.request", "url", c.baseURL+"/analyze", "source_bytes", len(functionSource))

	report, err := retry.DoWithData(
		func() (string, error) {
			return c.analyzeOnce(ctx, endpoint, bearerToken)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode >= http.StatusInternalServerError
			}
			// Connection-level failure.
			return true
		}),
	)
	if err != nil {
		return "", err
	}

	c.logger.Debug("analyze.response", "report_bytes", len(report))
	return report, nil
}

// analyzeOnce performs a single analyze request.
func (c *Client) analyzeOnce(ctx context.Context, endpoint, bearerToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read analyze response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > errorBodyLimit {
			snippet = snippet[:errorBodyLimit]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	return string(body), nil
}
