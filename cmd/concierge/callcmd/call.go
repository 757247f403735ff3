// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package callcmd implements the "concierge call" command: the whole
// protocol exchange in one shot. Fetch the schema, collect the payload
// through a terminal form, invoke with the minted state token replayed,
// and print the result.
package callcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/concierge/cmd/concierge/cli"
	"github.com/bureau-foundation/concierge/lib/client"
	"github.com/bureau-foundation/concierge/lib/prompt"
)

type callParams struct {
	cli.JSONOutput
	Endpoint cli.EndpointConfig
}

// callOutcome is the --json output shape for a completed call: the
// payload the form collected and the result the service returned.
type callOutcome struct {
	Values map[string]any `json:"values"`
	Result map[string]any `json:"result"`
}

// callRejection is the --json output shape when the service answers the
// invocation with a protocol error. Schema, when present, is the
// replacement schema the service shipped for repairing the payload.
type callRejection struct {
	Error  string `json:"error"`
	Schema any    `json:"schema,omitempty"`
}

// Command returns the "call" command.
func Command() *cli.Command {
	var params callParams

	return &cli.Command{
		Name:    "call",
		Summary: "fetch a schema, prompt for the payload, and invoke",
		Description: `Runs the full concierge exchange against a service.

The command fetches the schema, opens an interactive form built from
its properties, and submits the completed payload. A state token minted
with the schema response is replayed verbatim on the invocation, so
services that round-trip context work without any extra flags.

The form needs a terminal. For scripted invocations prepare the payload
as a file and use "concierge invoke" instead.`,
		Usage: "concierge call --url URL [--client NAME] [--json]",
		Examples: []cli.Example{
			{
				Description: "Call a local service interactively",
				Command:     "concierge call --url http://localhost:8080",
			},
			{
				Description: "Identify the caller and capture the result",
				Command:     "concierge call --url http://localhost:8080 --client weather-bot --json > result.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("call", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("call takes no positional arguments, got %q", args[0])
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return cli.Validation("call needs an interactive terminal for the prompt form").
					WithHint(`Prepare the payload as a JSON file and use "concierge invoke --payload FILE" for scripted invocations.`)
			}

			connection, err := params.Endpoint.Connect(cli.NewClientLogger(slog.LevelWarn))
			if err != nil {
				return cli.Validation("%w", err)
			}
			defer connection.CloseIdleConnections()

			response, err := connection.FetchSchema(ctx)
			if err != nil {
				return cli.Transient("fetch schema from %s: %w", params.Endpoint.URL, err)
			}

			// The form and any prose around it draw on stdout when it is a
			// terminal, and fall back to stderr when stdout is piped so the
			// result document stays clean.
			display := os.Stdout
			if !term.IsTerminal(int(display.Fd())) {
				display = os.Stderr
			}

			if instructions := response.Instructions(); instructions != "" {
				fmt.Fprintln(display, prompt.RenderMarkdown(instructions, prompt.DefaultTheme(), displayWidth(display)))
			}

			form, err := prompt.NewForm(response.Schema(), prompt.WithTitle(params.Endpoint.URL))
			if err != nil {
				return cli.Validation("cannot build a form from the service schema: %w", err)
			}

			program := tea.NewProgram(form, tea.WithOutput(display))
			model, err := program.Run()
			if err != nil {
				return cli.Internal("prompt form: %w", err)
			}
			completed, ok := model.(prompt.Form)
			if !ok {
				return cli.Internal("prompt form returned unexpected model %T", model)
			}
			if !completed.Submitted() {
				fmt.Fprintln(os.Stderr, "cancelled")
				return &cli.ExitError{Code: 1}
			}

			values := completed.Values()
			result, err := connection.Invoke(ctx, values, response.StateToken())
			if err != nil {
				var serviceErr *client.ServiceError
				if errors.As(err, &serviceErr) {
					if done, emitErr := params.EmitJSON(rejectionFromError(serviceErr)); done {
						if emitErr != nil {
							return emitErr
						}
						return &cli.ExitError{Code: 1}
					}
					renderRejection(os.Stderr, serviceErr)
					return &cli.ExitError{Code: 1}
				}
				return cli.Transient("invoke %s: %w", params.Endpoint.URL, err)
			}

			if done, err := params.EmitJSON(callOutcome{Values: values, Result: result}); done {
				return err
			}
			return renderResult(os.Stdout, result)
		},
	}
}

// displayWidth reports the terminal width of the display writer for
// markdown wrapping, falling back to 80 columns.
func displayWidth(display *os.File) int {
	width, _, err := term.GetSize(int(display.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func rejectionFromError(serviceErr *client.ServiceError) callRejection {
	return callRejection{Error: serviceErr.Message, Schema: serviceErr.Schema}
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

// renderRejection writes a protocol error response for a human: the
// service's message, and the replacement schema when one was shipped.
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
