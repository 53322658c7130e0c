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

// Package ui provides colored terminal output helpers for the benchify CLI.
//
// Colors are automatically disabled when stdout is not a terminal, when the
// NO_COLOR environment variable is set, or when --no-color is passed.
package ui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Shared color instances for direct use in command output.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Cyan   = color.New(color.FgCyan)
	Red    = color.New(color.FgRed)
	Dim    = color.New(color.Faint)

	bold     = color.New(color.Bold)
	boldCyan = color.New(color.FgCyan, color.Bold)
)

// InitColors configures color output based on the --no-color flag and
// terminal detection. Must be called once before any other ui function.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
		return
	}
	// fatih/color already honors NO_COLOR; also disable when stdout is not
	// a terminal so piped output stays clean.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a top-level section header followed by a blank line.
func Header(text string) {
	_, _ = boldCyan.Println(text)
	fmt.Println()
}

// SubHeader prints a secondary section header.
func SubHeader(text string) {
	_, _ = bold.Println(text)
}

// Info prints an informational message to stdout.
func Info(text string) {
	fmt.Println(text)
}

// Infof prints a formatted informational message to stdout.
func Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Success prints a success message with a leading check mark.
func Success(text string) {
	_, _ = Green.Printf("✓ %s\n", text)
}

// Successf prints a formatted success message with a leading check mark.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message to stderr.
func Warning(text string) {
	_, _ = Yellow.Fprintf(os.Stderr, "Warning: %s\n", text)
}

// Warningf prints a formatted warning message to stderr.
func Warningf(format string, args ...any) {
	Warning(fmt.Sprintf(format, args...))
}

// Label returns text styled as a field label for aligned key/value output.
func Label(text string) string {
	return bold.Sprint(text)
}

// DimText returns text styled as de-emphasized (paths, durations, URLs).
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a count formatted with thousands separators and styled
// for emphasis.
func CountText(n int) string {
	return Cyan.Sprint(groupDigits(n))
}

// groupDigits inserts comma separators into an integer's decimal form.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
