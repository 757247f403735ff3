// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

// DraftMarker is the JSON Schema dialect emitted documents declare.
const DraftMarker = "http://json-schema.org/draft-07/schema#"

// Schema is a JSON Schema representation covering the subset this
// package emits. Top-level documents carry the draft-07 marker;
// nested property schemas leave it empty.
type Schema struct {
	// SchemaDialect is the "$schema" marker, set on top-level
	// documents only.
	SchemaDialect string `json:"$schema,omitempty"`

	// Type is the JSON Schema type: "object", "string", "boolean",
	// "integer", "number", or "array".
	Type string `json:"type,omitempty"`

	// Description is a human-readable explanation of the value.
	Description string `json:"description,omitempty"`

	// Properties maps property names to their schemas. Only set when
	// Type is "object".
	Properties map[string]*Schema `json:"properties,omitempty"`

	// Required lists property names that must be provided. Only set
	// when Type is "object".
	Required []string `json:"required,omitempty"`

	// Default is the value assumed when the field is omitted.
	Default any `json:"default,omitempty"`

	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`

	// Items describes the element type for uniform array schemas.
	Items *Schema `json:"items,omitempty"`

	// PrefixItems describes the member types of tuple schemas,
	// position by position.
	PrefixItems []*Schema `json:"prefixItems,omitempty"`

	// MinItems and MaxItems pin tuple schemas to their exact length.
	MinItems *int `json:"minItems,omitempty"`
	MaxItems *int `json:"maxItems,omitempty"`

	// AdditionalProperties constrains object members beyond
	// Properties: false closes the object, a schema types the
	// remaining members (map semantics). Nil leaves the object open.
	// A non-nil interface survives omitempty, so an explicit false
	// is emitted while the nil default is dropped.
	AdditionalProperties any `json:"additionalProperties,omitempty"`

	// Format is an optional format hint (e.g., "duration" for
	// time.Duration fields serialized as strings like "30s",
	// "date-time" for time.Time fields).
	Format string `json:"format,omitempty"`
}
