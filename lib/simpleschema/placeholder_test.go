// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"reflect"
	"testing"
)

func TestPlaceholder(t *testing.T) {
	schema, err := Build(map[string]Tag{
		"title":    String(),
		"severity": Integer(),
		"score":    Number(),
		"open":     Boolean(),
		"tags":     Array(String()),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]any{
		"title":    "",
		"severity": int64(0),
		"score":    float64(0),
		"open":     false,
		"tags":     []any{},
	}
	if got := Placeholder(schema); !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholder = %#v, want %#v", got, want)
	}
}

func TestPlaceholder_DefaultWins(t *testing.T) {
	schema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"region": {Type: "string", Default: "us-east-1"},
			"count":  {Type: "integer"},
		},
	}

	want := map[string]any{
		"region": "us-east-1",
		"count":  int64(0),
	}
	if got := Placeholder(schema); !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholder = %#v, want %#v", got, want)
	}
}

func TestPlaceholder_Nested(t *testing.T) {
	schema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"owner": {
				Type: "object",
				Properties: map[string]*Schema{
					"name": {Type: "string"},
				},
			},
		},
	}

	want := map[string]any{
		"owner": map[string]any{"name": ""},
	}
	if got := Placeholder(schema); !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholder = %#v, want %#v", got, want)
	}
}

func TestPlaceholder_Degenerate(t *testing.T) {
	if got := Placeholder(nil); got != nil {
		t.Errorf("Placeholder(nil) = %v, want nil", got)
	}
	if got := Placeholder(&Schema{}); got != nil {
		t.Errorf("Placeholder(untyped schema) = %v, want nil", got)
	}
}
