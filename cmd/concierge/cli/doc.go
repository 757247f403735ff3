// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the concierge CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in
// cmd/concierge/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Flag sets are usually built from tagged params structs via
// [FlagsFromParams], with [JSONOutput] embedded for commands that
// support --json. [EndpointConfig] carries the shared connection flags
// for the client-side commands and dials the service via
// [EndpointConfig.Connect].
//
// Errors returned from Run functions are plain errors; commands that
// want categorized errors for scripting return [ToolError] values via
// the constructors (Validation, NotFound, Transient, ...), and commands
// that have already rendered their own failure output return [ExitError]
// to set the process exit code silently.
package cli
