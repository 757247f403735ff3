// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package invokecmd implements the "concierge invoke" command: submit a
// prepared payload file to a service, optionally replaying a state token
// captured from an earlier describe.
package invokecmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/client"
)

type invokeParams struct {
	Endpoint cli.EndpointConfig
	Payload  string `json:"payload" flag:"payload" desc:"path to the payload JSON file"`
	State    string `json:"state" flag:"state" desc:"state token to replay, as captured from describe --json"`
}

// Command returns the "invoke" command.
func Command() *cli.Command {
	var params invokeParams

	return &cli.Command{
		Name:    "invoke",
		Summary: "submit a prepared payload file to a service",
		Description: `Submits a payload to a service without any interactive step.

The payload file must contain a single JSON object matching the
service's schema ("concierge describe" shows it). The service's result
document is written to stdout as indented JSON, so invoke composes
with jq and friends.

Services that mint state tokens expect them back on the invocation.
Capture the token from "concierge describe --json" and pass it with
--state; document tokens are replayed as the JSON they were minted as,
opaque serialized tokens as the exact string.`,
		Usage: "concierge invoke --url URL --payload FILE [--state TOKEN]",
		Examples: []cli.Example{
			{
				Description: "Submit a prepared payload",
				Command:     "concierge invoke --url http://localhost:8080 --payload request.json",
			},
			{
				Description: "Replay a state token captured from describe",
				Command:     `concierge invoke --url http://localhost:8080 --payload request.json --state "$(concierge describe --url http://localhost:8080 --json | jq -c .state)"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("invoke", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("invoke takes no positional arguments, got %q", args[0])
			}

			payload, err := readPayload(params.Payload)
			if err != nil {
				return err
			}

			connection, err := params.Endpoint.Connect(cli.NewClientLogger(slog.LevelWarn))
			if err != nil {
				return cli.Validation("%w", err)
			}
			defer connection.CloseIdleConnections()

			result, err := connection.Invoke(ctx, payload, parseStateToken(params.State))
			if err != nil {
				var serviceErr *client.ServiceError
				if errors.As(err, &serviceErr) {
					renderRejection(os.Stderr, serviceErr)
					return &cli.ExitError{Code: 1}
				}
				return cli.Transient("invoke %s: %w", params.Endpoint.URL, err)
			}

			return renderResult(os.Stdout, result)
		},
	}
}

// readPayload loads and validates the payload file. The payload must be
// a JSON object; the protocol has no notion of array or scalar payloads.
func readPayload(path string) (map[string]any, error) {
	if path == "" {
		return nil, cli.Validation("--payload is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.NotFound("payload file %q not found", path)
		}
		return nil, cli.Validation("read payload file: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, cli.Validation("payload file %s is not a JSON object: %v", path, err)
	}
	if payload == nil {
		return nil, cli.Validation("payload file %s contains JSON null, expected an object", path)
	}
	return payload, nil
}

// parseStateToken turns the --state flag value back into the token the
// service minted. Flag values that parse as a JSON document are replayed
// as that document; everything else, including opaque serialized tokens,
// is replayed as the raw string. An empty flag means no token.
func parseStateToken(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var document any
		if err := json.Unmarshal([]byte(trimmed), &document); err == nil {
			return document
		}
	}
	return value
}

// renderResult writes the service's result document as indented JSON.
func renderResult(w io.Writer, result map[string]any) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return cli.Internal("encode result: %w", err)
	}
	fmt.Fprintln(w, string(encoded))
	return nil
}

// renderRejection writes a protocol error response: the service's
// message, and the replacement schema when one was shipped.
func renderRejection(w io.Writer, serviceErr *client.ServiceError) {
	fmt.Fprintf(w, "invocation rejected: %s\n", serviceErr.Message)
	if serviceErr.Schema == nil {
		return
	}
	encoded, err := json.MarshalIndent(serviceErr.Schema, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(w, "\nThe service returned a corrected schema:")
	fmt.Fprintln(w, string(encoded))
}
