// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonptr implements RFC 6901 JSON Pointers over decoded JSON
// documents (map[string]any, []any, and scalar values).
//
// Beyond standard resolution ([Resolve]), the package provides
// [Merge]: placing a value at a pointer inside a base document,
// creating intermediate containers along the way. Merge never mutates
// its inputs; it returns a new document that shares untouched branches
// with the base. This is the primitive behind response templates: a
// service describes where a client-filled value belongs inside a
// larger document by shipping the base and a pointer instead of the
// assembled result.
//
// Pointer syntax errors and traversal failures are reported as
// [InvalidPointerError].
package jsonptr
