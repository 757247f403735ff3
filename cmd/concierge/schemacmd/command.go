// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemacmd

import (
	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
)

// Command returns the "schema" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "schema",
		Summary: "Build schemas and derived artifacts from definition files",
		Description: `Tools for working with JSONC schema definition files.

A definition file declares the fields a service accepts:

    {
      // what the service does
      "description": "weather lookup parameters",
      "fields": {
        "city": "string",
        "days": "integer",
      },
      "required": ["city"],
    }

"schema build" turns the definition into the JSON Schema document the
service publishes. "schema fingerprint" prints the digest used for
cache validation, and "schema placeholder" prints the neutral document
a response template carries when the service sets no explicit value.`,
		Subcommands: []*cli.Command{
			buildCommand(),
			fingerprintCommand(),
			placeholderCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Print the JSON Schema for a definition",
				Command:     "concierge schema build --definition weather.jsonc",
			},
			{
				Description: "Print the schema fingerprint",
				Command:     "concierge schema fingerprint --definition weather.jsonc",
			},
			{
				Description: "Print the placeholder document",
				Command:     "concierge schema placeholder --definition weather.jsonc",
			},
		},
	}
}
