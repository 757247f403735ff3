// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete concierge CLI command tree.
// Every subcommand package registers here, so help, suggestions, and
// dispatch all see the same set.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/concierge/cmd/concierge/callcmd"
	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/cmd/concierge/describecmd"
	"github.com/bureau-foundation/concierge/cmd/concierge/invokecmd"
	"github.com/bureau-foundation/concierge/cmd/concierge/schemacmd"
	"github.com/bureau-foundation/concierge/cmd/concierge/servecmd"
	"github.com/bureau-foundation/concierge/lib/version"
)

// Root builds and returns the complete concierge CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "concierge",
		Description: `Tooling for self-describing HTTP APIs.

A concierge service publishes a JSON Schema for its payload, optional
usage instructions, and an opaque state token that callers replay on
the invocation. The CLI covers both sides of that exchange: build and
inspect schema definitions, describe and call live services, and run
a demo service to develop against.`,
		Subcommands: []*cli.Command{
			schemacmd.Command(),
			describecmd.Command(),
			callcmd.Command(),
			invokecmd.Command(),
			servecmd.Command(),
			{
				Name:    "version",
				Summary: "print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("concierge %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Inspect a schema definition",
				Command:     "concierge schema build --definition weather.jsonc",
			},
			{
				Description: "Ask a service to describe itself",
				Command:     "concierge describe --url http://localhost:8080",
			},
			{
				Description: "Run the whole exchange interactively",
				Command:     "concierge call --url http://localhost:8080",
			},
			{
				Description: "Script an invocation from a payload file",
				Command:     "concierge invoke --url http://localhost:8080 --payload request.json",
			},
			{
				Description: "Run the demo service",
				Command:     "concierge serve --config concierge.yaml",
			},
		},
	}
}
