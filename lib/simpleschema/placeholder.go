// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

// Placeholder derives the zero-value document a schema describes: the
// value a concierge response template carries when the service picks
// no explicit one. A schema's default wins when present; otherwise
// objects yield property-wise placeholders, arrays yield [], strings
// "", integers 0, numbers 0.0, booleans false. Nil schemas and
// schemas with no recognized type yield nil.
func Placeholder(schema *Schema) any {
	if schema == nil {
		return nil
	}
	if schema.Default != nil {
		return schema.Default
	}
	switch schema.Type {
	case "object":
		document := map[string]any{}
		for name, property := range schema.Properties {
			document[name] = Placeholder(property)
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
