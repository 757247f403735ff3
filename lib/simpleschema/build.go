// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"fmt"
	"slices"
	"sort"
)

// BuildOption adjusts how [Build] assembles an object schema.
type BuildOption func(*buildSettings) error

type buildSettings struct {
	description          string
	required             []string
	requiredSet          bool
	additionalProperties bool
}

// WithDescription sets the schema's top-level description.
func WithDescription(text string) BuildOption {
	return func(settings *buildSettings) error {
		settings.description = text
		return nil
	}
}

// WithRequired limits the required list to the named fields. Naming a
// field that was not declared is an error.
func WithRequired(names ...string) BuildOption {
	return func(settings *buildSettings) error {
		settings.required = names
		settings.requiredSet = true
		return nil
	}
}

// WithAllOptional marks every field optional.
func WithAllOptional() BuildOption {
	return func(settings *buildSettings) error {
		settings.required = nil
		settings.requiredSet = true
		return nil
	}
}

// WithAdditionalProperties leaves the object open to members beyond
// the declared fields. The default is a closed object.
func WithAdditionalProperties() BuildOption {
	return func(settings *buildSettings) error {
		settings.additionalProperties = true
		return nil
	}
}

// Build assembles a draft-07 object schema from field declarations.
// By default every declared field is required and the object is
// closed to undeclared members; options loosen both.
func Build(fields map[string]Tag, options ...BuildOption) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("building schema: no fields declared")
	}

	var settings buildSettings
	for _, option := range options {
		if err := option(&settings); err != nil {
			return nil, fmt.Errorf("building schema: %w", err)
		}
	}

	properties := make(map[string]*Schema, len(fields))
	for name, tag := range fields {
		properties[name] = tag.schema()
	}

	required := settings.required
	if !settings.requiredSet {
		required = make([]string, 0, len(fields))
		for name := range fields {
			required = append(required, name)
		}
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("building schema: required field %q is not declared", name)
		}
	}
	// Sorted required lists keep the document deterministic across
	// builds of the same declaration.
	sort.Strings(required)
	required = slices.Compact(required)

	schema := &Schema{
		SchemaDialect: DraftMarker,
		Type:          "object",
		Description:   settings.description,
		Properties:    properties,
		Required:      required,
	}
	if !settings.additionalProperties {
		schema.AdditionalProperties = false
	}
	return schema, nil
}
