// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simpleschema

import (
	"fmt"
	"strings"
)

// Kind enumerates the type forms a field declaration can take.
type Kind string

const (
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindTuple   Kind = "tuple"
	KindMap     Kind = "map"
)

// Tag is a parsed field type declaration. Scalar kinds stand alone;
// arrays carry an element tag, maps a value tag, tuples one tag per
// member. Build with the constructor functions or [ParseTag].
type Tag struct {
	Kind    Kind
	Elem    *Tag  // KindArray element, KindMap value
	Members []Tag // KindTuple members, in order
}

// Scalar and container constructors for programmatic declarations.

// String declares a string field.
func String() Tag { return Tag{Kind: KindString} }

// Boolean declares a boolean field.
func Boolean() Tag { return Tag{Kind: KindBoolean} }

// Integer declares an integer field.
func Integer() Tag { return Tag{Kind: KindInteger} }

// Number declares a floating-point field.
func Number() Tag { return Tag{Kind: KindNumber} }

// Object declares an untyped object field.
func Object() Tag { return Tag{Kind: KindObject} }

// Array declares an array field with uniform element type.
func Array(elem Tag) Tag { return Tag{Kind: KindArray, Elem: &elem} }

// Tuple declares a fixed-length array field with per-position types.
func Tuple(members ...Tag) Tag { return Tag{Kind: KindTuple, Members: members} }

// Map declares an object field with uniform value type and arbitrary
// member names.
func Map(value Tag) Tag { return Tag{Kind: KindMap, Elem: &value} }

// ParseTag parses the string form of a type declaration, as used in
// definition files: a scalar name ("string", "boolean", "integer",
// "number", "object") or a parameterized container ("array<string>",
// "tuple<string,integer>", "map<number>"). Containers nest:
// "array<array<integer>>", "map<tuple<string,number>>".
func ParseTag(text string) (Tag, error) {
	tag, rest, err := parseTag(strings.TrimSpace(text))
	if err != nil {
		return Tag{}, fmt.Errorf("type tag %q: %w", text, err)
	}
	if rest != "" {
		return Tag{}, fmt.Errorf("type tag %q: trailing %q", text, rest)
	}
	return tag, nil
}

// parseTag consumes one type expression from the front of text and
// returns it with the unconsumed remainder.
func parseTag(text string) (Tag, string, error) {
	name := text
	rest := ""
	for i := 0; i < len(text); i++ {
		if text[i] == '<' || text[i] == ',' || text[i] == '>' {
			name, rest = text[:i], text[i:]
			break
		}
	}
	name = strings.TrimSpace(name)

	switch Kind(name) {
	case KindString, KindBoolean, KindInteger, KindNumber, KindObject:
		return Tag{Kind: Kind(name)}, rest, nil

	case KindArray, KindMap:
		inner, rest, err := parseParameters(rest, name)
		if err != nil {
			return Tag{}, "", err
		}
		if len(inner) != 1 {
			return Tag{}, "", fmt.Errorf("%s takes exactly one parameter, got %d", name, len(inner))
		}
		return Tag{Kind: Kind(name), Elem: &inner[0]}, rest, nil

	case KindTuple:
		members, rest, err := parseParameters(rest, name)
		if err != nil {
			return Tag{}, "", err
		}
		if len(members) == 0 {
			return Tag{}, "", fmt.Errorf("tuple needs at least one member")
		}
		return Tag{Kind: KindTuple, Members: members}, rest, nil
	}

	return Tag{}, "", fmt.Errorf("unknown type %q (valid: string, boolean, integer, number, object, array<T>, tuple<A,B,...>, map<V>)", name)
}

// parseParameters consumes "<expr, expr, ...>" from the front of text.
func parseParameters(text, container string) ([]Tag, string, error) {
	if !strings.HasPrefix(text, "<") {
		return nil, "", fmt.Errorf("%s needs type parameters in angle brackets", container)
	}
	text = text[1:]
	var parameters []Tag
	for {
		tag, rest, err := parseTag(strings.TrimSpace(text))
		if err != nil {
			return nil, "", err
		}
		parameters = append(parameters, tag)
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, ",") {
			text = rest[1:]
			continue
		}
		if strings.HasPrefix(rest, ">") {
			return parameters, rest[1:], nil
		}
		return nil, "", fmt.Errorf("%s parameters are missing a closing \">\"", container)
	}
}

// String renders the tag back to its declaration form.
func (t Tag) String() string {
	switch t.Kind {
	case KindArray, KindMap:
		return fmt.Sprintf("%s<%s>", t.Kind, t.Elem)
	case KindTuple:
		members := make([]string, len(t.Members))
		for i, member := range t.Members {
			members[i] = member.String()
		}
		return fmt.Sprintf("tuple<%s>", strings.Join(members, ","))
	}
	return string(t.Kind)
}

// schema renders the tag as a property schema.
func (t Tag) schema() *Schema {
	switch t.Kind {
	case KindString, KindBoolean, KindInteger, KindNumber, KindObject:
		return &Schema{Type: string(t.Kind)}
	case KindArray:
		return &Schema{Type: "array", Items: t.Elem.schema()}
	case KindMap:
		return &Schema{Type: "object", AdditionalProperties: t.Elem.schema()}
	case KindTuple:
		members := make([]*Schema, len(t.Members))
		for i, member := range t.Members {
			members[i] = member.schema()
		}
		length := len(t.Members)
		return &Schema{
			Type:        "array",
			PrefixItems: members,
			MinItems:    &length,
			MaxItems:    &length,
		}
	}
	return &Schema{}
}
