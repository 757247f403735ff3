// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"reflect"
	"testing"
)

func TestParseResponseRoundTrip(t *testing.T) {
	built, err := NewSchemaResponse(
		map[string]any{"type": "object"},
		WithInstructions("fill these in"),
		WithBase(map[string]any{"outer": map[string]any{}}),
		WithPath("/outer/inner"),
		WithState(map[string]any{"id": 1}),
	)
	if err != nil {
		t.Fatalf("NewSchemaResponse: %v", err)
	}
	payload, err := built.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	response, err := ParseResponse(payload)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if response.Kind() != KindSchema {
		t.Fatalf("Kind() = %q, want %q", response.Kind(), KindSchema)
	}
	if !reflect.DeepEqual(response.Schema(), map[string]any{"type": "object"}) {
		t.Fatalf("Schema() = %#v", response.Schema())
	}
	if response.Instructions() != "fill these in" {
		t.Fatalf("Instructions() = %q", response.Instructions())
	}

	// Token opacity: the client sees exactly the wire token and never
	// a decoded value.
	if response.StateToken() != payload[FieldState] {
		t.Fatalf("StateToken() = %#v, want the verbatim wire token %#v", response.StateToken(), payload[FieldState])
	}
	if !response.HasState() {
		t.Fatal("HasState() = false for a response carrying state")
	}

	wantDocument := map[string]any{"outer": map[string]any{"inner": map[string]any{}}}
	if !reflect.DeepEqual(response.Document(), wantDocument) {
		t.Fatalf("Document() = %#v, want %#v", response.Document(), wantDocument)
	}
}

func TestParseResponseHeadersRoundTrip(t *testing.T) {
	built, err := NewErrorResponse(
		"quota exceeded",
		WithSchema(map[string]any{"type": "object"}),
		WithState(map[string]any{"retry": float64(2)}),
		WithBase(map[string]any{"slot": map[string]any{}}),
		WithPath("/slot/value"),
	)
	if err != nil {
		t.Fatalf("NewErrorResponse: %v", err)
	}
	headers, err := built.Headers()
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}

	response, err := ParseResponseHeaders(headers)
	if err != nil {
		t.Fatalf("ParseResponseHeaders: %v", err)
	}
	if response.Kind() != KindError {
		t.Fatalf("Kind() = %q, want %q", response.Kind(), KindError)
	}
	if response.ErrorMessage() != "quota exceeded" {
		t.Fatalf("ErrorMessage() = %q", response.ErrorMessage())
	}
	if !reflect.DeepEqual(response.Schema(), map[string]any{"type": "object"}) {
		t.Fatalf("Schema() = %#v", response.Schema())
	}
	if response.StateToken() != headers[FieldState] {
		t.Fatalf("StateToken() = %#v, want the verbatim header value", response.StateToken())
	}

	wantDocument := map[string]any{"slot": map[string]any{"value": map[string]any{}}}
	if !reflect.DeepEqual(response.Document(), wantDocument) {
		t.Fatalf("Document() = %#v, want %#v", response.Document(), wantDocument)
	}
}

func TestParseResponseErrors(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
	}{
		{name: "no response marker", body: map[string]any{"data": float64(1)}},
		{name: "non-string marker", body: map[string]any{FieldResponse: float64(1)}},
		{name: "unknown kind", body: map[string]any{FieldResponse: "partial"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseResponse(tc.body)
			if err == nil {
				t.Fatal("ParseResponse succeeded, want error")
			}
			if !IsInvalidRequest(err) {
				t.Fatalf("error %v is not an InvalidRequestError", err)
			}
		})
	}
}

func TestParseResponseHeadersBadJSON(t *testing.T) {
	_, err := ParseResponseHeaders(map[string]string{
		FieldResponse: "schema",
		FieldSchema:   "{broken",
	})
	if err == nil {
		t.Fatal("ParseResponseHeaders accepted a schema header that is not JSON")
	}
	if !IsInvalidRequest(err) {
		t.Fatalf("error %v is not an InvalidRequestError", err)
	}
}

func TestParseResponseCaseInsensitive(t *testing.T) {
	response, err := ParseResponse(map[string]any{
		"X-API-Concierge-Response": "Schema",
		"X-API-Concierge-Schema":   map[string]any{"type": "object"},
	})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if response.Kind() != KindSchema {
		t.Fatalf("Kind() = %q, want %q", response.Kind(), KindSchema)
	}
}
