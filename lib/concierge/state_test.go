// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"encoding/base64"
	"reflect"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	values := []any{
		map[string]any{"cursor": "abc", "page": float64(3)},
		[]any{"a", float64(1), true},
		"plain string",
		float64(42),
		true,
		nil,
	}

	for _, serialize := range []bool{true, false} {
		for _, value := range values {
			token, err := EncodeState(value, serialize)
			if err != nil {
				t.Fatalf("EncodeState(%#v, %v): %v", value, serialize, err)
			}
			decoded, err := DecodeState(token, serialize)
			if err != nil {
				t.Fatalf("DecodeState(%#v, %v): %v", token, serialize, err)
			}
			if !reflect.DeepEqual(decoded, value) {
				t.Fatalf("round trip (serialize=%v) of %#v produced %#v", serialize, value, decoded)
			}
		}
	}
}

func TestEncodeStateSerializedForm(t *testing.T) {
	token, err := EncodeState(map[string]any{"id": 1}, true)
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	want := base64.URLEncoding.EncodeToString([]byte(`{"id":1}`))
	if token != want {
		t.Fatalf("EncodeState produced %v, want %q", token, want)
	}
}

func TestEncodeStateRawPassthrough(t *testing.T) {
	// The raw contract carries any JSON value unchanged, not just
	// strings.
	value := map[string]any{"nested": []any{float64(1), float64(2)}}
	token, err := EncodeState(value, false)
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	if !reflect.DeepEqual(token, value) {
		t.Fatalf("raw encode changed the value: %#v", token)
	}
}

func TestDecodeStateMalformed(t *testing.T) {
	cases := []struct {
		name  string
		token any
	}{
		{name: "not base64", token: "not-base64!!"},
		{name: "base64 of non-JSON", token: base64.URLEncoding.EncodeToString([]byte("{broken"))},
		{name: "non-string token", token: float64(7)},
		{name: "nil token", token: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeState(tc.token, true)
			if err == nil {
				t.Fatalf("DecodeState(%#v, true) succeeded, want error", tc.token)
			}
			if !IsMalformedState(err) {
				t.Fatalf("DecodeState(%#v, true) error %v is not a MalformedStateError", tc.token, err)
			}
		})
	}
}

func TestDecodeStateRawNeverFails(t *testing.T) {
	for _, token := range []any{"not-base64!!", float64(7), nil, []any{"x"}} {
		decoded, err := DecodeState(token, false)
		if err != nil {
			t.Fatalf("DecodeState(%#v, false): %v", token, err)
		}
		if !reflect.DeepEqual(decoded, token) {
			t.Fatalf("raw decode changed the token: %#v -> %#v", token, decoded)
		}
	}
}

func BenchmarkEncodeState(b *testing.B) {
	value := map[string]any{"cursor": "abcdef", "page": 3, "filters": []any{"a", "b"}}
	for b.Loop() {
		if _, err := EncodeState(value, true); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeState(b *testing.B) {
	token, err := EncodeState(map[string]any{"cursor": "abcdef", "page": 3}, true)
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		if _, err := DecodeState(token, true); err != nil {
			b.Fatal(err)
		}
	}
}
