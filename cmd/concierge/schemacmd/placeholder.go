// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemacmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/simpleschema"
)

// placeholderParams holds the parameters for the schema placeholder command.
type placeholderParams struct {
	Definition string `json:"definition" flag:"definition" desc:"path to the JSONC schema definition file"`
}

func placeholderCommand() *cli.Command {
	var params placeholderParams

	return &cli.Command{
		Name:    "placeholder",
		Summary: "Print the neutral document derived from a schema",
		Description: `Print the placeholder document for the schema built from a definition
file.

The placeholder is the neutral value of each declared field: "" for
strings, 0 for numbers, false for booleans, empty containers for
arrays and objects. A response built with a base template and no
explicit value merges this document into the base at the template's
path.`,
		Usage: "concierge schema placeholder --definition FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("placeholder", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Print the placeholder document",
				Command:     "concierge schema placeholder --definition weather.jsonc",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("placeholder takes no positional arguments, got %q", args[0])
			}
			schema, err := loadDefinition(params.Definition)
			if err != nil {
				return err
			}
			return printPlaceholder(schema, os.Stdout)
		},
	}
}

// printPlaceholder writes the schema's placeholder document as
// indented JSON.
func printPlaceholder(schema *simpleschema.Schema, w io.Writer) error {
	output, err := json.MarshalIndent(simpleschema.Placeholder(schema), "", "  ")
	if err != nil {
		return cli.Internal("encoding placeholder: %v", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
