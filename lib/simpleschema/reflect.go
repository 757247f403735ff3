// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FromStruct derives an object schema from T's type information.
// Property names come from json struct tags, descriptions from desc
// tags, and defaults from default tags. Fields without a json tag, or
// tagged json:"-", are excluded.
//
// A field is marked required when it carries a required:"true" tag and
// no default. Embedded structs are flattened into the parent object.
// The result carries the draft-07 dialect marker and is closed to
// undeclared members, matching [Build]'s treatment of declared fields.
func FromStruct[T any]() (*Schema, error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("deriving schema: %s is not a struct type", structType)
	}

	schema, err := structSchema(structType)
	if err != nil {
		return nil, fmt.Errorf("deriving schema for %s: %w", structType, err)
	}
	schema.SchemaDialect = DraftMarker
	return schema, nil
}

// structSchema constructs an object schema from a struct type.
func structSchema(structType reflect.Type) (*Schema, error) {
	schema := &Schema{
		Type:                 "object",
		Properties:           make(map[string]*Schema),
		AdditionalProperties: false,
	}

	for i := range structType.NumField() {
		field := structType.Field(i)

		// Embedded structs flatten into the parent. This handles both
		// exported and unexported embedded types.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, err := structSchema(field.Type)
			if err != nil {
				return nil, fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			for name, property := range embedded.Properties {
				schema.Properties[name] = property
			}
			schema.Required = append(schema.Required, embedded.Required...)
			continue
		}

		if !field.IsExported() {
			continue
		}

		propertyName := jsonPropertyName(field)
		if propertyName == "" || propertyName == "-" {
			continue
		}

		property, err := fieldSchema(field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		schema.Properties[propertyName] = property

		// Required only when explicitly tagged and no default provided.
		if field.Tag.Get("required") == "true" && field.Tag.Get("default") == "" {
			schema.Required = append(schema.Required, propertyName)
		}
	}

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	return schema, nil
}

// jsonPropertyName extracts the JSON property name from a struct
// field's json tag. Returns "" if no json tag, or "-" if the field is
// excluded.
func jsonPropertyName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// fieldSchema builds the schema for a single struct field from its Go
// type and struct tags. Primitive types (string, bool, int, float,
// []string, time.Duration) support desc and default tags. Compound
// types (nested structs, complex slices, maps, pointers, arrays)
// delegate to [typeSchema] and overlay the desc tag.
func fieldSchema(field reflect.StructField) (*Schema, error) {
	description := field.Tag.Get("desc")

	fieldType := field.Type
	if fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	switch fieldType.Kind() {
	case reflect.String:
		return withDefault(&Schema{Type: "string", Description: description}, field)
	case reflect.Bool:
		return withDefault(&Schema{Type: "boolean", Description: description}, field)
	case reflect.Int, reflect.Int64:
		if fieldType == durationType {
			return withDefault(&Schema{Type: "string", Format: "duration", Description: description}, field)
		}
		return withDefault(&Schema{Type: "integer", Description: description}, field)
	case reflect.Float64:
		return withDefault(&Schema{Type: "number", Description: description}, field)
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			return withDefault(&Schema{Type: "array", Items: &Schema{Type: "string"}, Description: description}, field)
		}
	}

	// Compound types do not support default tags.
	schema, err := typeSchema(fieldType)
	if err != nil {
		return nil, err
	}
	schema.Description = description
	return schema, nil
}

// withDefault applies the default struct tag (if present) to a
// primitive field schema.
func withDefault(schema *Schema, field reflect.StructField) (*Schema, error) {
	if defaultString := field.Tag.Get("default"); defaultString != "" {
		defaultValue, err := parseDefault(field.Type, defaultString)
		if err != nil {
			return nil, fmt.Errorf("default %q: %w", defaultString, err)
		}
		schema.Default = defaultValue
	}
	return schema, nil
}

// parseDefault parses a default value string into the appropriate Go
// type so it marshals to the correct JSON type (number, boolean, and
// so on).
func parseDefault(fieldType reflect.Type, value string) (any, error) {
	// time.Duration defaults stay strings in JSON ("30s"), but must
	// parse.
	if fieldType == durationType {
		if _, err := time.ParseDuration(value); err != nil {
			return nil, err
		}
		return value, nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Bool:
		return strconv.ParseBool(value)
	case reflect.Int:
		return strconv.Atoi(value)
	case reflect.Int64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			return strings.Split(value, ","), nil
		}
		return nil, fmt.Errorf("unsupported slice type %s", fieldType)
	default:
		return nil, fmt.Errorf("unsupported type %s", fieldType)
	}
}

// Well-known types whose JSON representation differs from their Go
// structure.
var (
	timeType       = reflect.TypeOf(time.Time{})
	durationType   = reflect.TypeOf(time.Duration(0))
	rawMessageType = reflect.TypeOf(json.RawMessage{})
	byteSliceType  = reflect.TypeOf([]byte{})
)

// typeSchema generates a schema from a reflect.Type. It handles
// structs (via [structSchema]), slices, arrays, maps, pointers, and Go
// primitives. Types with custom JSON marshaling (time.Time,
// json.RawMessage, []byte) are special-cased to match their serialized
// form rather than their Go structure.
func typeSchema(typ reflect.Type) (*Schema, error) {
	switch typ {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}, nil
	case durationType:
		return &Schema{Type: "string", Format: "duration"}, nil
	case rawMessageType:
		// json.RawMessage passes through arbitrary JSON.
		return &Schema{}, nil
	case byteSliceType:
		// Go's json.Marshal encodes []byte as base64.
		return &Schema{Type: "string", Format: "byte"}, nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		return structSchema(typ)
	case reflect.Slice, reflect.Array:
		items, err := typeSchema(typ.Elem())
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Ptr:
		return typeSchema(typ.Elem())
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Schema{Type: "integer"}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Map:
		if !mapKeyMarshalable(typ.Key().Kind()) {
			return nil, fmt.Errorf("unsupported map key type %s", typ.Key())
		}
		// map[K]any accepts any JSON value: a plain open object.
		if typ.Elem().Kind() == reflect.Interface {
			return &Schema{Type: "object"}, nil
		}
		valueSchema, err := typeSchema(typ.Elem())
		if err != nil {
			return &Schema{Type: "object"}, nil
		}
		return &Schema{Type: "object", AdditionalProperties: valueSchema}, nil
	case reflect.Interface:
		// interface{} / any carries no type constraint.
		return &Schema{}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s (%s)", typ, typ.Kind())
	}
}

// mapKeyMarshalable reports whether the kind can serve as a JSON
// object key. Go's json.Marshal converts integer keys to decimal
// strings and supports string keys directly.
func mapKeyMarshalable(kind reflect.Kind) bool {
	switch kind {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
