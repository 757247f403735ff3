// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package simpleschema builds JSON Schema documents from compact
// field declarations, so services can describe the parameters they
// expect without writing JSON Schema by hand.
//
// A service names its fields and their types; the package emits a
// draft-07 object schema with every field required and no additional
// properties, both overridable. Three declaration forms feed the same
// builder:
//
//   - type tags parsed from strings ("string", "array<integer>",
//     "tuple<string,boolean>", "map<number>") via [ParseTag], used by
//     JSONC definition files ([ParseDefinition]);
//   - [Tag] values constructed programmatically ([String], [Array],
//     [Tuple], ...);
//   - Go struct types reflected with [FromStruct], using json / desc /
//     default / required struct tags.
//
// [Fingerprint] derives a stable identifier from a schema's canonical
// JSON, for cache validation. [Placeholder] derives the zero-value
// document a schema describes.
package simpleschema
