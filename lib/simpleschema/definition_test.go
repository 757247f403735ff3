// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const ticketDefinition = `{
	// Parameters for creating a support ticket.
	"description": "ticket creation parameters",
	"fields": {
		"title": "string",
		"severity": "integer",
		"tags": "array<string>",
		"watchers": "map<boolean>",
	},
	"required": ["title", "severity"],
}`

func TestParseDefinition(t *testing.T) {
	schema, err := ParseDefinition([]byte(ticketDefinition))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}

	if schema.Description != "ticket creation parameters" {
		t.Errorf("Description = %q", schema.Description)
	}
	if len(schema.Properties) != 4 {
		t.Errorf("Properties has %d entries, want 4", len(schema.Properties))
	}
	if got := schema.Properties["tags"]; got.Type != "array" || got.Items.Type != "string" {
		t.Errorf("tags schema = %+v", got)
	}
	if want := []string{"severity", "title"}; !reflect.DeepEqual(schema.Required, want) {
		t.Errorf("Required = %v, want %v", schema.Required, want)
	}
	if schema.AdditionalProperties != false {
		t.Errorf("AdditionalProperties = %v, want false", schema.AdditionalProperties)
	}
}

func TestParseDefinition_RequiredModes(t *testing.T) {
	schema, err := ParseDefinition([]byte(`{
		"fields": {"a": "string", "b": "string"},
		"required": "all",
	}`))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(schema.Required, want) {
		t.Errorf("required \"all\": Required = %v, want %v", schema.Required, want)
	}

	schema, err = ParseDefinition([]byte(`{
		"fields": {"a": "string"},
		"required": "none",
	}`))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if len(schema.Required) != 0 {
		t.Errorf("required \"none\": Required = %v, want empty", schema.Required)
	}

	// Absent required defaults to all fields.
	schema, err = ParseDefinition([]byte(`{"fields": {"a": "string"}}`))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if want := []string{"a"}; !reflect.DeepEqual(schema.Required, want) {
		t.Errorf("absent required: Required = %v, want %v", schema.Required, want)
	}
}

func TestParseDefinition_AdditionalProperties(t *testing.T) {
	schema, err := ParseDefinition([]byte(`{
		"fields": {"a": "string"},
		"additional_properties": true,
	}`))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if schema.AdditionalProperties != nil {
		t.Errorf("AdditionalProperties = %v, want nil (open object)", schema.AdditionalProperties)
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"malformed json", `{"fields": `},
		{"no fields", `{"description": "empty"}`},
		{"bad tag", `{"fields": {"a": "float"}}`},
		{"unknown required name", `{"fields": {"a": "string"}, "required": ["b"]}`},
		{"bad required mode", `{"fields": {"a": "string"}, "required": "some"}`},
		{"bad required type", `{"fields": {"a": "string"}, "required": 42}`},
	}

	for _, tc := range cases {
		if _, err := ParseDefinition([]byte(tc.text)); err == nil {
			t.Errorf("%s: ParseDefinition succeeded, want error", tc.name)
		}
	}
}

func TestReadDefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.jsonc")
	if err := os.WriteFile(path, []byte(ticketDefinition), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	schema, err := ReadDefinitionFile(path)
	if err != nil {
		t.Fatalf("ReadDefinitionFile: %v", err)
	}
	if schema.Description != "ticket creation parameters" {
		t.Errorf("Description = %q", schema.Description)
	}
}

func TestReadDefinitionFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.jsonc")
	_, err := ReadDefinitionFile(path)
	if err == nil {
		t.Fatal("ReadDefinitionFile succeeded on a missing file")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}
