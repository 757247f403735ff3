// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"
)

// definitionFile is the on-disk shape of a schema definition. Files
// are authored as JSONC (JSON extended with // line comments,
// /* block comments */, and trailing commas).
type definitionFile struct {
	// Description is the schema's top-level description.
	Description string `json:"description"`

	// Fields maps field names to type tags ("string",
	// "array<integer>", ...).
	Fields map[string]string `json:"fields"`

	// Required is either the string "all" (the default), the string
	// "none", or an array of field names.
	Required json.RawMessage `json:"required"`

	// AdditionalProperties leaves the object open to undeclared
	// members when true. The default is a closed object.
	AdditionalProperties bool `json:"additional_properties"`
}

// ParseDefinition strips JSONC comments and trailing commas from data,
// then builds a schema from the declared fields. The definition shape:
//
//	{
//	  "description": "ticket creation parameters",
//	  "fields": {
//	    "title": "string",
//	    "tags": "array<string>",
//	  },
//	  "required": ["title"],
//	}
//
// required accepts "all" (the default), "none", or an explicit list of
// field names. additional_properties: true leaves the object open.
func ParseDefinition(data []byte) (*Schema, error) {
	stripped := jsonc.ToJSON(data)

	var definition definitionFile
	if err := json.Unmarshal(stripped, &definition); err != nil {
		return nil, fmt.Errorf("parsing schema definition: %w", err)
	}

	fields := make(map[string]Tag, len(definition.Fields))
	for name, text := range definition.Fields {
		tag, err := ParseTag(text)
		if err != nil {
			return nil, fmt.Errorf("parsing schema definition: field %q: %w", name, err)
		}
		fields[name] = tag
	}

	options := []BuildOption{WithDescription(definition.Description)}
	requiredOption, err := parseRequired(definition.Required)
	if err != nil {
		return nil, fmt.Errorf("parsing schema definition: %w", err)
	}
	if requiredOption != nil {
		options = append(options, requiredOption)
	}
	if definition.AdditionalProperties {
		options = append(options, WithAdditionalProperties())
	}

	schema, err := Build(fields, options...)
	if err != nil {
		return nil, fmt.Errorf("parsing schema definition: %w", err)
	}
	return schema, nil
}

// parseRequired interprets the definition's required member. Returns
// nil (meaning keep Build's all-required default) when the member is
// absent or "all".
func parseRequired(raw json.RawMessage) (BuildOption, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var mode string
	if err := json.Unmarshal(raw, &mode); err == nil {
		switch mode {
		case "all":
			return nil, nil
		case "none":
			return WithAllOptional(), nil
		default:
			return nil, fmt.Errorf(`required: %q is not "all", "none", or a field list`, mode)
		}
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf(`required: expected "all", "none", or a field list`)
	}
	// Stable option regardless of authoring order.
	sort.Strings(names)
	return WithRequired(names...), nil
}

// ReadDefinitionFile reads a JSONC schema definition from disk and
// builds the schema. Returns a descriptive error if the file cannot be
// read or the definition is malformed.
func ReadDefinitionFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	schema, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}
