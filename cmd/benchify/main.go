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

// Package main implements the benchify CLI, a thin client for the hosted
// benchify code-analysis service.
//
// Usage:
//
//	benchify analyze <file> [function]   Analyze one function from a Python file
//	benchify login                       Log in via the browser (device code)
//	benchify logout                      Delete cached credentials
//	benchify whoami                      Show the logged-in identity
//	benchify functions <file>            List functions found in a file
//	benchify config                      Show effective configuration
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/benchify/benchify/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON    bool // Output in JSON format (for applicable commands)
	NoColor bool // Disable color output
	Verbose int  // Verbosity level: 0=normal, 1=-v (info), 2=-vv (debug)
	Quiet   bool // Suppress non-essential output (progress, info messages)
}

// newLogger builds the slog logger used by commands, with the level driven
// by the -v count. Log lines go to stderr so they never mix with reports.
func newLogger(globals GlobalFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case globals.Verbose >= 2:
		level = slog.LevelDebug
	case globals.Verbose == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// main is the entry point for the benchify CLI.
//
// It parses global flags and dispatches to command handlers.
func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to config.yaml (default: ~/.benchify/config.yaml)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output (progress, info messages)")
	)

	// Stop parsing at the first non-flag argument (the command name) so
	// subcommand-specific flags like "login --force" reach the subcommand
	// handlers instead of being rejected by the global parser.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `benchify - hosted code analysis from your terminal

benchify sends a single function from a local Python file to the
benchify analysis service and prints the resulting report. The first
run opens a browser login; credentials are cached afterwards.

Usage:
  benchify <command> [options]

Commands:
  analyze       Analyze one function from a Python file
  login         Log in via the browser (device code flow)
  logout        Delete cached credentials
  whoami        Show the logged-in identity
  functions     List functions found in a file
  config        Show effective configuration

Global Options:
  --json            Output in JSON format (for applicable commands)
  --no-color        Disable color output (respects NO_COLOR env var)
  -v, --verbose     Increase verbosity (-v for info, -vv for debug)
  -q, --quiet       Suppress non-essential output (progress, info messages)
  -c, --config      Path to config.yaml
  -V, --version     Show version and exit

Examples:
  benchify analyze sortlib.py              Analyze the only function in the file
  benchify analyze sortlib.py isort        Analyze the function named isort
  benchify functions sortlib.py            List functions in the file
  benchify login                           Log in (opens browser)
  benchify whoami --json                   Show identity as JSON

Getting Started:
  1. Log in once:            benchify login
  2. Analyze a function:     benchify analyze sortlib.py isort

Data Storage:
  Configuration and cached credentials live in ~/.benchify/
  (override with BENCHIFY_DATA_DIR).

Environment Variables:
  BENCHIFY_API_URL       Analysis service URL (default: https://benchify.cloud)
  BENCHIFY_AUTH_DOMAIN   Identity provider domain
  BENCHIFY_CLIENT_ID     OAuth client ID
  BENCHIFY_DATA_DIR      Data directory for credentials

For detailed command help: benchify <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("benchify version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	// Check NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	// Validate conflicting flags
	if *quiet && *verbose > 0 {
		fmt.Fprintf(os.Stderr, "Error: cannot use --quiet and --verbose together\n")
		os.Exit(1)
	}

	// JSON mode auto-enables quiet to prevent spinners corrupting JSON output
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{
		JSON:    *jsonOutput,
		NoColor: *noColor,
		Verbose: *verbose,
		Quiet:   *quiet,
	}

	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "analyze":
		runAnalyze(cmdArgs, *configPath, globals)
	case "login":
		runLogin(cmdArgs, *configPath, globals)
	case "logout":
		runLogout(cmdArgs, *configPath, globals)
	case "whoami":
		runWhoami(cmdArgs, *configPath, globals)
	case "functions":
		runFunctions(cmdArgs, *configPath, globals)
	case "config":
		runConfigCmd(cmdArgs, *configPath, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
