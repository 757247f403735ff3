// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"encoding/json"
	"fmt"
)

// SchemaPlaceholder derives the zero-value document a JSON Schema
// describes: the value merged into a response template when the
// caller supplies none. A schema's "default" wins when present;
// otherwise objects yield property-wise placeholders, arrays yield
// [], strings "", integers 0, numbers 0.0, booleans false. Schemas
// with no recognizable type (and nil schemas) yield nil.
//
// Typed schema values (structs) are accepted: anything that marshals
// to a JSON object is walked in its JSON form.
func SchemaPlaceholder(schema any) (any, error) {
	if schema == nil {
		return nil, nil
	}
	node, ok := schema.(map[string]any)
	if !ok {
		data, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("deriving schema placeholder: %w", err)
		}
		if err := json.Unmarshal(data, &node); err != nil {
			// Boolean and other non-object schema documents
			// describe no derivable shape.
			return nil, nil
		}
	}
	return placeholderNode(node), nil
}

func placeholderNode(node map[string]any) any {
	if value, ok := node["default"]; ok {
		return value
	}
	typeName, _ := node["type"].(string)
	switch typeName {
	case "object":
		document := map[string]any{}
		properties, _ := node["properties"].(map[string]any)
		for name, property := range properties {
			propertyNode, ok := property.(map[string]any)
			if !ok {
				document[name] = nil
				continue
			}
			document[name] = placeholderNode(propertyNode)
		}
		return document
	case "array":
		return []any{}
	case "string":
		return ""
	case "integer":
		return int64(0)
	case "number":
		return float64(0)
	case "boolean":
		return false
	}
	return nil
}
