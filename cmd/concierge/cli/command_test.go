// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "concierge",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "describe",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "describe"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"describe"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "describe" {
		t.Errorf("dispatched to %q, want %q", called, "describe")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "concierge",
		Subcommands: []*Command{
			{
				Name: "schema",
				Subcommands: []*Command{
					{
						Name: "build",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "schema build"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"schema", "build", "extra-arg"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "schema build" {
		t.Errorf("dispatched to %q, want %q", called, "schema build")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_PassesContextAndLogger(t *testing.T) {
	type contextKey struct{}
	parent := context.WithValue(context.Background(), contextKey{}, "present")
	logger := testLogger()

	command := &Command{
		Name: "describe",
		Run: func(ctx context.Context, args []string, runLogger *slog.Logger) error {
			if ctx.Value(contextKey{}) != "present" {
				t.Error("Run did not receive the caller's context")
			}
			if runLogger != logger {
				t.Error("Run did not receive the caller's logger")
			}
			return nil
		},
	}

	if err := command.Execute(parent, nil, logger); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var payloadPath string
	var target string

	command := &Command{
		Name: "invoke",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("invoke", pflag.ContinueOnError)
			flagSet.StringVar(&payloadPath, "payload", "request.json", "payload file")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--payload", "/tmp/weather.json", "extra"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if payloadPath != "/tmp/weather.json" {
		t.Errorf("payloadPath = %q, want %q", payloadPath, "/tmp/weather.json")
	}
	if target != "extra" {
		t.Errorf("target = %q, want %q", target, "extra")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "describe",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("describe", pflag.ContinueOnError)
			flagSet.Bool("header-transport", false, "use header transport")
			flagSet.String("url", "", "service URL")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--header-transprot"}, testLogger())
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --header-transport") {
		t.Errorf("error = %q, want suggestion for '--header-transport'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "header-transprot") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "describe",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("describe", pflag.ContinueOnError)
			flagSet.Bool("header-transport", false, "use header transport")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"}, testLogger())
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "concierge",
		Subcommands: []*Command{
			{Name: "describe"},
			{Name: "call"},
			{Name: "serve"},
		},
	}

	err := root.Execute(context.Background(), []string{"descrbe"}, testLogger())
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"describe\"") {
		t.Errorf("error = %q, want suggestion for 'describe'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "concierge",
		Subcommands: []*Command{
			{Name: "describe"},
			{Name: "call"},
		},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzz"}, testLogger())
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "concierge",
				Summary: "Self-describing API tooling",
				Subcommands: []*Command{
					{Name: "schema", Summary: "Schema operations"},
				},
			}

			err := root.Execute(context.Background(), []string{helpArg}, testLogger())
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "concierge",
		Subcommands: []*Command{
			{Name: "schema", Summary: "Schema operations"},
		},
	}

	err := root.Execute(context.Background(), []string{}, testLogger())
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "concierge",
		Description: "Tooling for self-describing HTTP APIs.",
		Subcommands: []*Command{
			{Name: "describe", Summary: "Fetch and display a service's schema"},
			{Name: "call", Summary: "Interactively fill and submit an invocation"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Inspect a service",
				Command:     "concierge describe --url http://localhost:8080",
			},
			{
				Description: "Serve the example weather schema",
				Command:     "concierge serve --config concierge.yaml",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"Tooling for self-describing HTTP APIs.",
		"Usage:",
		"concierge <command> [flags]",
		"Commands:",
		"describe",
		"Fetch and display a service's schema",
		"call",
		"Interactively fill and submit an invocation",
		"Examples:",
		"concierge describe --url http://localhost:8080",
		"concierge serve --config",
		"Run 'concierge <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "invoke",
		Summary: "Replay a prepared invocation payload",
		Usage:   "concierge invoke --url URL --payload FILE [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("invoke", pflag.ContinueOnError)
			flagSet.String("payload", "", "path to the payload JSON file")
			flagSet.String("state", "", "state token to replay")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"concierge invoke --url URL --payload FILE [flags]",
		"Flags:",
		"payload",
		"state",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "concierge"}
	schema := &Command{Name: "schema", parent: root}
	build := &Command{Name: "build", parent: schema}

	if got := root.fullName(); got != "concierge" {
		t.Errorf("root.fullName() = %q, want %q", got, "concierge")
	}
	if got := schema.fullName(); got != "concierge schema" {
		t.Errorf("schema.fullName() = %q, want %q", got, "concierge schema")
	}
	if got := build.fullName(); got != "concierge schema build" {
		t.Errorf("build.fullName() = %q, want %q", got, "concierge schema build")
	}
}
