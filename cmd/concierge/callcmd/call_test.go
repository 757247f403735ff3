// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package callcmd

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/bureau-foundation/concierge/lib/client"
)

func TestCommand(t *testing.T) {
	command := Command()
	if command.Name != "call" {
		t.Errorf("Name = %q, want %q", command.Name, "call")
	}

	flagSet := command.Flags()
	for _, name := range []string{"url", "client", "header-transport", "timeout", "json"} {
		if flagSet.Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	err := renderResult(&buf, map[string]any{
		"forecast": "sunny",
		"high":     float64(24),
	})
	if err != nil {
		t.Fatalf("renderResult: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"forecast": "sunny"`) {
		t.Errorf("output missing forecast:\n%s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("output should end with a newline")
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["high"] != float64(24) {
		t.Errorf("high = %v", decoded["high"])
	}
}

func TestRenderRejectionWithSchema(t *testing.T) {
	var buf bytes.Buffer
	renderRejection(&buf, &client.ServiceError{
		Message:    "city is required",
		Schema:     map[string]any{"type": "object"},
		StatusCode: 400,
	})

	output := buf.String()
	if !strings.Contains(output, "invocation rejected: city is required") {
		t.Errorf("output missing the service message:\n%s", output)
	}
	if !strings.Contains(output, "corrected schema") {
		t.Errorf("output missing the schema note:\n%s", output)
	}
	if !strings.Contains(output, `"type": "object"`) {
		t.Errorf("output missing the schema document:\n%s", output)
	}
}

func TestRenderRejectionWithoutSchema(t *testing.T) {
	var buf bytes.Buffer
	renderRejection(&buf, &client.ServiceError{
		Message:    "rate limited",
		StatusCode: 429,
	})

	output := buf.String()
	if !strings.Contains(output, "rate limited") {
		t.Errorf("output missing the service message:\n%s", output)
	}
	if strings.Contains(output, "corrected schema") {
		t.Errorf("output mentions a schema that was not shipped:\n%s", output)
	}
}

func TestRejectionFromError(t *testing.T) {
	rejection := rejectionFromError(&client.ServiceError{
		Message: "city is required",
	})

	encoded, err := json.Marshal(rejection)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(encoded), `"error":"city is required"`) {
		t.Errorf("rejection JSON missing error: %s", encoded)
	}
	if strings.Contains(string(encoded), `"schema"`) {
		t.Errorf("rejection JSON should omit an absent schema: %s", encoded)
	}
}

func TestDisplayWidthFallback(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "notatty")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer file.Close()

	if width := displayWidth(file); width != 80 {
		t.Errorf("displayWidth = %d, want 80 for a non-terminal", width)
	}
}
