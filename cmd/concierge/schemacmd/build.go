// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemacmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/simpleschema"
)

// buildParams holds the parameters for the schema build command.
type buildParams struct {
	Definition string `json:"definition" flag:"definition" desc:"path to the JSONC schema definition file"`
}

func buildCommand() *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Print the JSON Schema for a definition file",
		Description: `Read a JSONC schema definition and print the JSON Schema document a
service built from it would publish.

The output is the exact document a service configured with this
definition returns to schema requests, which makes it useful for
review and for diffing against a live service.`,
		Usage: "concierge schema build --definition FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("build", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Print the JSON Schema",
				Command:     "concierge schema build --definition weather.jsonc",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("build takes no positional arguments, got %q", args[0])
			}
			schema, err := loadDefinition(params.Definition)
			if err != nil {
				return err
			}
			return printSchema(schema, os.Stdout)
		},
	}
}

// loadDefinition reads and builds the schema from a definition file,
// mapping failures onto tool error categories.
func loadDefinition(path string) (*simpleschema.Schema, error) {
	if path == "" {
		return nil, cli.Validation("--definition is required")
	}
	schema, err := simpleschema.ReadDefinitionFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("definition file %q not found", path)
		}
		return nil, cli.Validation("%v", err)
	}
	return schema, nil
}

// printSchema writes the schema document as indented JSON.
func printSchema(schema *simpleschema.Schema, w io.Writer) error {
	output, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return cli.Internal("encoding schema: %v", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
