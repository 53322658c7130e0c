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
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/benchify/benchify/internal/errors"
	"github.com/benchify/benchify/internal/output"
	"github.com/benchify/benchify/internal/ui"
	"github.com/benchify/benchify/pkg/api"
	"github.com/benchify/benchify/pkg/extract"
)

// AnalyzeResult represents the analysis outcome for JSON output.
type AnalyzeResult struct {
	File     string `json:"file"`
	Function string `json:"function"`
	Report   string `json:"report"`
}

// runAnalyze executes the 'analyze' CLI command, the main operation of the
// tool.
//
// It extracts the requested function from a Python file, ensures the user is
// logged in (running the device flow if needed), submits the function source
// to the analysis service, and prints the report.
//
// Arguments:
//   - <file>: Python file to analyze (required)
//   - [function]: Function name, required when the file defines more than one
//
// Examples:
//
//	benchify analyze sortlib.py          Analyze the only function in the file
//	benchify analyze sortlib.py isort    Analyze the function named isort
func runAnalyze(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: benchify analyze <file> [function]

Description:
  Send one function from a Python file to the benchify analysis
  service and print the resulting report.

  When the file defines exactly one function, the function name may be
  omitted. With multiple functions, name the one to analyze. Methods
  can be addressed by bare name or as Class.method.

  The first run opens a browser login; credentials are cached
  afterwards in the benchify data directory.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # File with a single function
  benchify analyze mymodule.py

  # Pick one function out of several
  benchify analyze sortlib.py isort

  # Machine-readable output
  benchify analyze sortlib.py isort --json

Notes:
  Analysis runs take about a minute. The request timeout is five times
  the expected duration to absorb above-average runs.

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		errors.FatalError(errors.NewInputError(
			"Missing file argument",
			"No file to analyze was specified",
			"Run 'benchify analyze <file> [function]', e.g. 'benchify analyze sortlib.py isort'",
		), globals.JSON)
	}
	file := rest[0]
	functionName := ""
	if len(rest) > 1 {
		functionName = rest[1]
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	logger := newLogger(globals)

	// Cancel the in-flight request on Ctrl-C instead of leaving it hanging.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !globals.Quiet {
		ui.Infof("Scanning %s ...", file)
	}

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
	source, chosen, err := selectFunctionSource(ctx, extractor, content, file, functionName)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	tokens, identity, fresh, err := ensureTokens(ctx, cfg, logger, globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	if fresh && !globals.Quiet {
		ui.Successf("Welcome %s!", identity.DisplayName())
	}

	expected := time.Duration(cfg.API.ExpectedSeconds) * time.Second
	client := api.NewClient(cfg.API.BaseURL, 5*expected, logger)

	if !globals.Quiet {
		ui.Infof("Analyzing %s. Should take about %s ...", ui.Cyan.Sprint(chosen), expected)
	}

	progressCfg := NewProgressConfig(globals)
	var report string
	err = runWithSpinner(progressCfg, "Analyzing", func() error {
		var reqErr error
		report, reqErr = client.Analyze(ctx, tokens.IDToken, source)
		return reqErr
	})
	if err != nil {
		errors.FatalError(analyzeRequestError(err), globals.JSON)
	}

	if globals.JSON {
		result := &AnalyzeResult{File: file, Function: chosen, Report: report}
		if err := output.JSON(result); err != nil {
			errors.FatalError(errors.NewInternalError(
				"Cannot encode report as JSON",
				"JSON encoding failed unexpectedly",
				"This is a bug. Please report it",
				err,
			), globals.JSON)
		}
		return
	}

	fmt.Println()
	ui.Header(fmt.Sprintf("Analysis Report: %s", chosen))
	fmt.Println(report)
}

// selectFunctionSource picks which function to analyze and returns its exact
// source along with the resolved function name.
//
// Selection rules:
//   - no functions in the file: error
//   - one function: use it; a given name must still match
//   - multiple functions: a name is required and must match one of them
func selectFunctionSource(ctx context.Context, extractor *extract.Extractor, content []byte, file, functionName string) (string, string, error) {
	if functionName == "" {
		count, err := extractor.Count(ctx, content)
		if err != nil {
			return "", "", parseInputError(file, err)
		}

		switch {
		case count == 0:
			return "", "", errors.NewInputError(
				"No functions found",
				fmt.Sprintf("There were no function definitions in %s", file),
				"Point benchify at a Python file that defines at least one function",
			)
		case count > 1:
			example := "main"
			if functions, err := extractor.ListFunctions(ctx, content); err == nil && len(functions) > 0 {
				example = functions[0].Name
			}
			return "", "", errors.NewInputError(
				"Multiple functions in file",
				fmt.Sprintf("%s defines %d functions; specify which one to analyze", file, count),
				fmt.Sprintf("Name the function, e.g. 'benchify analyze %s %s'", file, example),
			)
		}

		fn, source, err := extractor.OnlyFunctionSource(ctx, content)
		if err != nil {
			return "", "", errors.NewInternalError(
				"Cannot extract function",
				fmt.Sprintf("Failed to extract the function from %s", file),
				"This is a bug. Please report it",
				err,
			)
		}
		return source, fn.Name, nil
	}

	source, err := extractor.FunctionSource(ctx, content, functionName)
	if err != nil {
		if errors.Is(err, extract.ErrFunctionNotFound) {
			return "", "", errors.NewInputError(
				"Function not found",
				fmt.Sprintf("Function named %s not found in %s", functionName, file),
				fmt.Sprintf("Run 'benchify functions %s' to list the functions in the file", file),
			)
		}
		return "", "", parseInputError(file, err)
	}

	return source, functionName, nil
}

// parseInputError wraps a parser failure as an input error.
func parseInputError(file string, err error) error {
	return errors.NewInputError(
		"Cannot parse file",
		fmt.Sprintf("Failed to parse %s: %v", file, err),
		"Check that the file contains valid Python source",
	)
}

// analyzeRequestError maps an api client error to a user error with the
// right suggestion.
func analyzeRequestError(err error) error {
	switch {
	case api.IsAuthError(err):
		return errors.NewAuthError(
			"Analysis request was rejected",
			"The analysis service did not accept the login credentials",
			"Run 'benchify login --force' and try again",
			err,
		)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.NewNetworkError(
			"Analysis timed out",
			"The analysis service did not respond in time",
			"Try again; the service may be under heavy load",
			err,
		)
	case errors.Is(err, context.Canceled):
		return errors.NewInputError(
			"Analysis cancelled",
			"The request was interrupted before a report was received",
			"Run the command again to restart the analysis",
		)
	default:
		return errors.NewNetworkError(
			"Cannot reach analysis service",
			"The analyze request failed",
			"Check your network connection and try again",
			err,
		)
	}
}
