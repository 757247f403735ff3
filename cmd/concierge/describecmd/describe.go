// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package describecmd implements the "concierge describe" command: send a
// schema request to a service and render what comes back.
package describecmd

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
	"golang.org/x/term"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/client"
	"github.com/bureau-foundation/concierge/lib/concierge"
	"github.com/bureau-foundation/concierge/lib/prompt"
)

type describeParams struct {
	cli.JSONOutput
	Endpoint cli.EndpointConfig
}

// describeReport is the --json output shape. State carries the token
// exactly as the service minted it; feed it back through "concierge
// invoke --state" to replay it.
type describeReport struct {
	Schema       any    `json:"schema"`
	Instructions string `json:"instructions,omitempty"`
	HasState     bool   `json:"has_state"`
	State        any    `json:"state,omitempty"`
}

// Command returns the "describe" command.
func Command() *cli.Command {
	var params describeParams

	return &cli.Command{
		Name:    "describe",
		Summary: "fetch and display a service's schema",
		Description: `Asks a service to describe itself and renders the answer.

The command sends a schema request and prints the response: the usage
instructions (markdown-styled when stdout is a terminal), the payload
schema as indented JSON, and a note when the service minted a state
token. With --json the whole response lands on stdout as one document
for scripting.

Protocol fields travel in the request body by default; pass
--header-transport for services that read them from HTTP headers.`,
		Usage: "concierge describe --url URL [--header-transport] [--json]",
		Examples: []cli.Example{
			{
				Description: "Describe a local service",
				Command:     "concierge describe --url http://localhost:8080",
			},
			{
				Description: "Capture the schema for scripting",
				Command:     "concierge describe --url http://localhost:8080 --json | jq .schema",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("describe", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("describe takes no positional arguments, got %q", args[0])
			}

			connection, err := params.Endpoint.Connect(cli.NewClientLogger(slog.LevelWarn))
			if err != nil {
				return cli.Validation("%w", err)
			}
			defer connection.CloseIdleConnections()

			response, err := connection.FetchSchema(ctx)
			if err != nil {
				return fetchFailure(params.Endpoint.URL, err)
			}

			if done, err := params.EmitJSON(reportFromResponse(response)); done {
				return err
			}

			interactive := term.IsTerminal(int(os.Stdout.Fd()))
			return renderDescription(os.Stdout, response, interactive, renderWidth())
		},
	}
}

// fetchFailure classifies a failed schema request. A [client.ServiceError]
// means the endpoint answered with a protocol error document; anything
// else is the network, or an endpoint that does not speak the protocol.
func fetchFailure(url string, err error) error {
	var serviceErr *client.ServiceError
	if errors.As(err, &serviceErr) {
		return cli.Internal("service at %s rejected the schema request: %s", url, serviceErr.Message)
	}
	return cli.Transient("fetch schema from %s: %w", url, err).
		WithHint("Check that the URL is reachable and that the service speaks the concierge protocol. Services that read protocol fields from headers need --header-transport.")
}

func reportFromResponse(response *concierge.Response) describeReport {
	return describeReport{
		Schema:       response.Schema(),
		Instructions: response.Instructions(),
		HasState:     response.HasState(),
		State:        response.StateToken(),
	}
}

// renderWidth reports the terminal width for markdown wrapping, falling
// back to 80 columns when stdout is not a terminal.
func renderWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// renderDescription writes the human-readable view: instructions first,
// then the payload schema as indented JSON, then a note when the service
// minted a state token. Markdown styling applies only when interactive;
// piped output stays plain.
func renderDescription(w io.Writer, response *concierge.Response, interactive bool, width int) error {
	if instructions := response.Instructions(); instructions != "" {
		if interactive {
			fmt.Fprintln(w, prompt.RenderMarkdown(instructions, prompt.DefaultTheme(), width))
		} else {
			fmt.Fprintln(w, strings.TrimRight(instructions, "\n"))
		}
		fmt.Fprintln(w)
	}

	encoded, err := json.MarshalIndent(response.Schema(), "", "  ")
	if err != nil {
		return cli.Internal("encode schema: %w", err)
	}
	fmt.Fprintln(w, string(encoded))

	if response.HasState() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, `The service minted a state token. "concierge call" replays it automatically; for "concierge invoke", capture it from --json output and pass it back with --state.`)
	}
	return nil
}
