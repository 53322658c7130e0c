// Copyright 2025 Benchify
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output provides shared helpers for machine-readable CLI output.
package output

import (
	"encoding/json"
	"os"
)

// JSON writes v to stdout as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
