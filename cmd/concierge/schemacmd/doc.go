// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemacmd implements the "concierge schema" subcommands for
// working with schema definition files from the command line.
//
// Definitions are JSONC documents mapping field names to type tags
// ("string", "array<integer>", ...); see lib/simpleschema for the
// definition format. The subcommands turn a definition into the
// artifacts a service publishes:
//
//   - build: print the JSON Schema document.
//   - fingerprint: print the schema's stable hex digest, usable as an
//     HTTP ETag.
//   - placeholder: print the schema-derived placeholder document that
//     services merge state into when no caller value is supplied.
//
// All subcommands read the definition from --definition and write to
// stdout, so the output composes with shell redirection.
package schemacmd
