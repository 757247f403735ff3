// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonptr

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		pointer string
		want    []string
		wantErr bool
	}{
		{name: "empty pointer", pointer: "", want: nil},
		{name: "root member", pointer: "/a", want: []string{"a"}},
		{name: "nested members", pointer: "/a/b/c", want: []string{"a", "b", "c"}},
		{name: "empty token", pointer: "/", want: []string{""}},
		{name: "tilde escape", pointer: "/m~0n", want: []string{"m~n"}},
		{name: "slash escape", pointer: "/a~1b", want: []string{"a/b"}},
		{name: "escape ordering", pointer: "/~01", want: []string{"~1"}},
		{name: "numeric tokens kept as strings", pointer: "/0/1", want: []string{"0", "1"}},
		{name: "missing leading slash", pointer: "a/b", wantErr: true},
		{name: "dangling tilde", pointer: "/a~", wantErr: true},
		{name: "unknown escape", pointer: "/a~2", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Parse(tc.pointer)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tc.pointer)
				}
				if !IsInvalidPointer(err) {
					t.Fatalf("Parse(%q) error %v is not an InvalidPointerError", tc.pointer, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.pointer, err)
			}
			if !reflect.DeepEqual(tokens, tc.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tc.pointer, tokens, tc.want)
			}
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, token := range []string{"plain", "with/slash", "with~tilde", "~1", "a~1b/c~0d", ""} {
		pointer := "/" + Escape(token)
		tokens, err := Parse(pointer)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pointer, err)
		}
		if len(tokens) != 1 || tokens[0] != token {
			t.Fatalf("escape round trip of %q via %q produced %#v", token, pointer, tokens)
		}
	}
}

func TestResolve(t *testing.T) {
	document := map[string]any{
		"name": "relay",
		"limits": map[string]any{
			"burst": float64(3),
		},
		"tags":  []any{"a", "b", "c"},
		"a/b":   "escaped-member",
		"count": float64(0),
	}

	cases := []struct {
		name    string
		pointer string
		want    any
		wantErr bool
	}{
		{name: "whole document", pointer: "", want: document},
		{name: "top level member", pointer: "/name", want: "relay"},
		{name: "nested member", pointer: "/limits/burst", want: float64(3)},
		{name: "array element", pointer: "/tags/1", want: "b"},
		{name: "escaped member name", pointer: "/a~1b", want: "escaped-member"},
		{name: "missing member", pointer: "/absent", wantErr: true},
		{name: "index out of range", pointer: "/tags/3", wantErr: true},
		{name: "append token not resolvable", pointer: "/tags/-", wantErr: true},
		{name: "leading zero index", pointer: "/tags/01", wantErr: true},
		{name: "traversal through scalar", pointer: "/name/deeper", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, err := Resolve(document, tc.pointer)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) succeeded with %v, want error", tc.pointer, value)
				}
				if !IsInvalidPointer(err) {
					t.Fatalf("Resolve(%q) error %v is not an InvalidPointerError", tc.pointer, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tc.pointer, err)
			}
			if !reflect.DeepEqual(value, tc.want) {
				t.Fatalf("Resolve(%q) = %#v, want %#v", tc.pointer, value, tc.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cases := []struct {
		name    string
		base    map[string]any
		pointer string
		value   any
		want    any
	}{
		{
			name:    "empty pointer replaces the document",
			base:    map[string]any{"a": float64(1)},
			pointer: "",
			value:   map[string]any{"b": float64(2)},
			want:    map[string]any{"b": float64(2)},
		},
		{
			name:    "top level set",
			base:    map[string]any{"a": float64(1)},
			pointer: "/b",
			value:   "x",
			want:    map[string]any{"a": float64(1), "b": "x"},
		},
		{
			name:    "replace existing member",
			base:    map[string]any{"a": float64(1)},
			pointer: "/a",
			value:   float64(2),
			want:    map[string]any{"a": float64(2)},
		},
		{
			name:    "creates intermediate objects",
			base:    map[string]any{},
			pointer: "/a/b/c",
			value:   true,
			want:    map[string]any{"a": map[string]any{"b": map[string]any{"c": true}}},
		},
		{
			name:    "descends into existing objects",
			base:    map[string]any{"a": map[string]any{"keep": "yes"}},
			pointer: "/a/b",
			value:   "new",
			want:    map[string]any{"a": map[string]any{"keep": "yes", "b": "new"}},
		},
		{
			name:    "numeric token creates an array",
			base:    map[string]any{},
			pointer: "/list/0",
			value:   "first",
			want:    map[string]any{"list": []any{"first"}},
		},
		{
			name:    "append token creates an array",
			base:    map[string]any{},
			pointer: "/list/-",
			value:   "first",
			want:    map[string]any{"list": []any{"first"}},
		},
		{
			name:    "append to existing array",
			base:    map[string]any{"list": []any{"a"}},
			pointer: "/list/-",
			value:   "b",
			want:    map[string]any{"list": []any{"a", "b"}},
		},
		{
			name:    "index equal to length appends",
			base:    map[string]any{"list": []any{"a"}},
			pointer: "/list/1",
			value:   "b",
			want:    map[string]any{"list": []any{"a", "b"}},
		},
		{
			name:    "in-range index replaces",
			base:    map[string]any{"list": []any{"a", "b"}},
			pointer: "/list/0",
			value:   "z",
			want:    map[string]any{"list": []any{"z", "b"}},
		},
		{
			name:    "container created inside appended slot",
			base:    map[string]any{"list": []any{}},
			pointer: "/list/-/name",
			value:   "n",
			want:    map[string]any{"list": []any{map[string]any{"name": "n"}}},
		},
		{
			name:    "nil base treated as empty object",
			base:    nil,
			pointer: "/a",
			value:   float64(1),
			want:    map[string]any{"a": float64(1)},
		},
		{
			name:    "escaped tokens address literal names",
			base:    map[string]any{},
			pointer: "/a~1b/~0",
			value:   "v",
			want:    map[string]any{"a/b": map[string]any{"~": "v"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged, err := Merge(tc.base, tc.pointer, tc.value)
			if err != nil {
				t.Fatalf("Merge(%q): %v", tc.pointer, err)
			}
			if !reflect.DeepEqual(merged, tc.want) {
				t.Fatalf("Merge(%q) = %#v, want %#v", tc.pointer, merged, tc.want)
			}
		})
	}
}

func TestMergeErrors(t *testing.T) {
	cases := []struct {
		name    string
		base    map[string]any
		pointer string
	}{
		{name: "malformed pointer", base: map[string]any{}, pointer: "no-slash"},
		{name: "descend into scalar", base: map[string]any{"a": "scalar"}, pointer: "/a/b"},
		{name: "array index beyond append position", base: map[string]any{"list": []any{"a"}}, pointer: "/list/5"},
		{name: "negative array index", base: map[string]any{"list": []any{"a"}}, pointer: "/list/-1"},
		{name: "leading zero array index", base: map[string]any{"list": []any{"a", "b"}}, pointer: "/list/01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Merge(tc.base, tc.pointer, "value")
			if err == nil {
				t.Fatalf("Merge(%q) succeeded, want error", tc.pointer)
			}
			if !IsInvalidPointer(err) {
				t.Fatalf("Merge(%q) error %v is not an InvalidPointerError", tc.pointer, err)
			}
		})
	}
}

// TestMergeDoesNotMutateBase pins the copy-on-descend contract: the
// base document must be byte-for-byte identical after any merge that
// rewrites one of its branches.
func TestMergeDoesNotMutateBase(t *testing.T) {
	base := map[string]any{
		"config": map[string]any{
			"name": "svc",
			"list": []any{"a", "b"},
		},
		"untouched": map[string]any{"x": float64(1)},
	}
	snapshot := deepCopy(t, base)

	if _, err := Merge(base, "/config/list/0", "replaced"); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if _, err := Merge(base, "/config/new/deep/member", true); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if !reflect.DeepEqual(base, snapshot) {
		t.Fatalf("base mutated by Merge:\n got %#v\nwant %#v", base, snapshot)
	}
}

// TestMergeResolveRoundTrip checks that a merged value reads back from
// the same pointer that placed it.
func TestMergeResolveRoundTrip(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": float64(1)}}
	pointers := []string{"/a/b", "/a/c", "/d/0", "/d/0/e", "/a~1b"}

	for _, pointer := range pointers {
		value := map[string]any{"marker": pointer}
		merged, err := Merge(base, pointer, value)
		if err != nil {
			t.Fatalf("Merge(%q): %v", pointer, err)
		}
		resolved, err := Resolve(merged, pointer)
		if err != nil {
			t.Fatalf("Resolve(%q) after merge: %v", pointer, err)
		}
		if !reflect.DeepEqual(resolved, value) {
			t.Fatalf("Resolve(Merge(%q)) = %#v, want %#v", pointer, resolved, value)
		}
	}
}

func deepCopy(t *testing.T, document map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(document)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var clone map[string]any
	if err := json.Unmarshal(data, &clone); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return clone
}

func BenchmarkMerge(b *testing.B) {
	base := map[string]any{
		"config": map[string]any{
			"name": "svc",
			"list": []any{"a", "b", "c"},
		},
	}
	for b.Loop() {
		if _, err := Merge(base, "/config/list/1", "replacement"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	document := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": []any{"x", "y"}}},
	}
	for b.Loop() {
		if _, err := Resolve(document, "/a/b/c/1"); err != nil {
			b.Fatal(err)
		}
	}
}
