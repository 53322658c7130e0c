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
	"os"

	flag "github.com/spf13/pflag"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/internal/output"
	"github.com/benchify/benchify/internal/ui"
	"github.com/benchify/benchify/pkg/extract"
)

// FunctionsResult represents the function listing for JSON output.
type FunctionsResult struct {
	File      string             `json:"file"`
	Count     int                `json:"count"`
	Functions []extract.Function `json:"functions"`
}

// runFunctions executes the 'functions' CLI command, listing the function
// definitions found in a Python file.
//
// Useful before 'analyze' on an unfamiliar file, and as the suggestion
// target when analyze reports an unknown function name.
//
// Examples:
//
//	benchify functions sortlib.py
//	benchify functions sortlib.py --json
func runFunctions(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("functions", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify functions <file> [options]

Description:
  List the function definitions found in a Python file, with their
  signatures and line ranges. Methods are shown as Class.method.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  benchify functions sortlib.py
  benchify functions sortlib.py --json | jq '.functions[].name'

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		errors.FatalError(errors.NewInputError(
			"Missing file argument",
			"No file was specified",
			"Run 'benchify functions <file>'",
		), globals.JSON)
	}
	file := rest[0]

	logger := newLogger(globals)

	content, err := os.ReadFile(file) //nolint:gosec // G304: Path is the user's own argument
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot read file",
			fmt.Sprintf("Failed to read %s: %v", file, err),
			"Check that the file exists and is readable",
		), globals.JSON)
	}

	if !extract.IsPythonFile(file) {
		errors.FatalError(errors.NewInputError(
			"Unsupported file type",
			fmt.Sprintf("%s is not a Python file", file),
			"benchify currently analyzes Python (.py) files only",
		), globals.JSON)
	}

	extractor := extract.NewExtractor(logger)
	functions, err := extractor.ListFunctions(context.Background(), content)
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot parse file",
			fmt.Sprintf("Failed to parse %s: %v", file, err),
			"Check that the file contains valid Python source",
		), globals.JSON)
	}

	result := &FunctionsResult{File: file, Count: len(functions), Functions: functions}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode listing as JSON",
				"JSON encoding failed unexpectedly",
				"This is a bug. Please report it",
				err,
			), globals.JSON)
		}
		return
	}

	ui.Header(fmt.Sprintf("Functions in %s", file))

	if len(functions) == 0 {
		ui.Warning("No function definitions found.")
		return
	}

	for _, fn := range functions {
		fmt.Printf("  %s  %s\n", fn.Signature, ui.DimText(fmt.Sprintf("(lines %d-%d)", fn.StartLine, fn.EndLine)))
	}

	fmt.Println()
	fmt.Printf("%s %s\n", ui.Label("Total:"), ui.CountText(len(functions)))
}
