// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemacmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/simpleschema"
)

// fingerprintParams holds the parameters for the schema fingerprint command.
type fingerprintParams struct {
	Definition string `json:"definition" flag:"definition" desc:"path to the JSONC schema definition file"`
}

func fingerprintCommand() *cli.Command {
	var params fingerprintParams

	return &cli.Command{
		Name:    "fingerprint",
		Summary: "Print the stable digest of a schema definition",
		Description: `Compute the fingerprint of the schema built from a definition file.

The fingerprint is a keyed BLAKE3 digest over the schema's canonical
JSON encoding. Services publish it as the schema response ETag;
clients revalidate cached schemas with If-None-Match. Comparing the
printed digest against a service's ETag tells you whether a deployed
service matches the definition in the repository.`,
		Usage: "concierge schema fingerprint --definition FILE",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fingerprint", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Print the fingerprint",
				Command:     "concierge schema fingerprint --definition weather.jsonc",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("fingerprint takes no positional arguments, got %q", args[0])
			}
			schema, err := loadDefinition(params.Definition)
			if err != nil {
				return err
			}
			return printFingerprint(schema, os.Stdout)
		},
	}
}

// printFingerprint writes the schema fingerprint as a single hex line.
func printFingerprint(schema *simpleschema.Schema, w io.Writer) error {
	digest, err := simpleschema.Fingerprint(schema)
	if err != nil {
		return cli.Internal("%v", err)
	}
	_, err = fmt.Fprintln(w, digest)
	return err
}
