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

// Package errors provides structured, user-facing errors for the benchify CLI.
//
// Every fatal error carries a short title, a detail line explaining what went
// wrong, and a suggestion telling the user what to do next. FatalError renders
// the error either as a human-readable block or as JSON (for --json mode) and
// exits with status 1.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Kind classifies a user error for JSON output and exit reporting.
type Kind string

const (
	KindConfig     Kind = "config"
	KindInput      Kind = "input"
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindInternal   Kind = "internal"
)

// UserError is an error with enough context to be shown directly to a user.
type UserError struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// Unwrap returns the wrapped cause, if any.
func (e *UserError) Unwrap() error {
	return e.Err
}

// New returns a plain error with the given text. Provided so command code can
// use a single errors import for both structured and ad-hoc errors.
func New(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// NewConfigError creates a configuration-related user error.
func NewConfigError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindConfig, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewInputError creates an error for invalid user input or arguments.
func NewInputError(title, detail, suggestion string) *UserError {
	return &UserError{Kind: KindInput, Title: title, Detail: detail, Suggestion: suggestion}
}

// NewNetworkError creates an error for failed remote communication.
func NewNetworkError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindNetwork, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewAuthError creates an error for failed or missing authentication.
func NewAuthError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindAuth, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewPermissionError creates an error for filesystem permission failures.
func NewPermissionError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindPermission, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// NewInternalError creates an error for unexpected internal failures.
func NewInternalError(title, detail, suggestion string, err error) *UserError {
	return &UserError{Kind: KindInternal, Title: title, Detail: detail, Suggestion: suggestion, Err: err}
}

// FatalError prints err to stderr and exits with status 1.
//
// Plain errors (not *UserError) are wrapped as internal errors first so the
// output format stays uniform. With jsonOutput set, the error is emitted as a
// single JSON object for programmatic consumers.
func FatalError(err error, jsonOutput bool) {
	var ue *UserError
	if !stderrors.As(err, &ue) {
		ue = NewInternalError("Unexpected error", err.Error(), "", err)
	}

	if jsonOutput {
		out := struct {
			Error *UserError `json:"error"`
			Cause string     `json:"cause,omitempty"`
		}{Error: ue}
		if ue.Err != nil {
			out.Cause = ue.Err.Error()
		}
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		os.Exit(1)
	}

	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(os.Stderr, "Error: %s\n", ue.Title)
	if ue.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
	}
	if ue.Err != nil {
		fmt.Fprintf(os.Stderr, "  Cause: %v\n", ue.Err)
	}
	if ue.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\n  %s\n", ue.Suggestion)
	}
	os.Exit(1)
}
