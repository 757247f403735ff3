// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestRootCommandNames(t *testing.T) {
	root := Root()

	seen := map[string]bool{}
	for _, command := range root.Subcommands {
		if seen[command.Name] {
			t.Errorf("duplicate command name %q", command.Name)
		}
		seen[command.Name] = true
	}

	for _, name := range []string{"schema", "describe", "call", "invoke", "serve", "version"} {
		if !seen[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootSuggestsForTypo(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := Root().Execute(context.Background(), []string{"descrbe"}, logger)
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), `"describe"`) {
		t.Errorf("error should suggest describe: %v", err)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	var buf bytes.Buffer
	Root().PrintHelp(&buf)

	help := buf.String()
	for _, name := range []string{"schema", "describe", "call", "invoke", "serve", "version"} {
		if !strings.Contains(help, name) {
			t.Errorf("help output missing %q:\n%s", name, help)
		}
	}
	if !strings.Contains(help, "self-describing HTTP APIs") {
		t.Errorf("help output missing the description:\n%s", help)
	}
}
