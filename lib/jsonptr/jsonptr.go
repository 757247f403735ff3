// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonptr

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// InvalidPointerError reports a malformed pointer or a pointer that
// cannot be applied to the document it was given: bad escape
// sequences, out-of-range array indices, or traversal through a
// scalar value.
type InvalidPointerError struct {
	// Pointer is the full pointer string as given by the caller.
	Pointer string

	// Reason describes what made the pointer unusable.
	Reason string
}

func (e *InvalidPointerError) Error() string {
	return fmt.Sprintf("invalid JSON pointer %q: %s", e.Pointer, e.Reason)
}

// IsInvalidPointer reports whether any error in err's chain is an
// [InvalidPointerError].
func IsInvalidPointer(err error) bool {
	var pointerError *InvalidPointerError
	return errors.As(err, &pointerError)
}

// Parse splits a pointer into its unescaped reference tokens. The
// empty pointer addresses the whole document and yields no tokens. A
// non-empty pointer must start with "/". The escape sequences "~0"
// (literal "~") and "~1" (literal "/") are decoded; any other use of
// "~" is malformed.
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, &InvalidPointerError{Pointer: pointer, Reason: "must start with \"/\""}
	}
	raw := strings.Split(pointer[1:], "/")
	tokens := make([]string, len(raw))
	for i, token := range raw {
		unescaped, err := unescape(token)
		if err != nil {
			return nil, &InvalidPointerError{Pointer: pointer, Reason: err.Error()}
		}
		tokens[i] = unescaped
	}
	return tokens, nil
}

// Escape encodes a single reference token for embedding in a pointer
// string: "~" becomes "~0" and "/" becomes "~1".
func Escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func unescape(token string) (string, error) {
	if !strings.Contains(token, "~") {
		return token, nil
	}
	var decoded strings.Builder
	decoded.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '~' {
			decoded.WriteByte(c)
			continue
		}
		if i+1 >= len(token) {
			return "", fmt.Errorf("token %q: dangling \"~\"", token)
		}
		switch token[i+1] {
		case '0':
			decoded.WriteByte('~')
		case '1':
			decoded.WriteByte('/')
		default:
			return "", fmt.Errorf("token %q: unknown escape \"~%c\"", token, token[i+1])
		}
		i++
	}
	return decoded.String(), nil
}

// Resolve evaluates pointer against document and returns the value it
// addresses. The empty pointer returns the document itself. The
// append token "-" is not resolvable: it names the position past the
// end of an array, which holds no value.
func Resolve(document any, pointer string) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	current := document
	for _, token := range tokens {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return nil, &InvalidPointerError{Pointer: pointer, Reason: fmt.Sprintf("no member %q", token)}
			}
			current = value
		case []any:
			index, err := arrayIndex(token, len(node), false)
			if err != nil {
				return nil, &InvalidPointerError{Pointer: pointer, Reason: err.Error()}
			}
			current = node[index]
		default:
			return nil, &InvalidPointerError{Pointer: pointer, Reason: fmt.Sprintf("cannot traverse %T with token %q", current, token)}
		}
	}
	return current, nil
}

// Merge returns a new document equal to base with value placed at
// pointer. The empty pointer addresses the whole document, so the
// result is value itself and base is ignored.
//
// Missing intermediate containers are created: a numeric or "-" token
// produces an array, anything else an object. Within an existing
// array, an in-range index replaces the element and an index equal to
// the length (or the token "-") appends.
//
// base is never mutated. The result shares branches with base that
// the pointer does not touch; treat both as read-only afterward.
func Merge(base map[string]any, pointer string, value any) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return value, nil
	}
	var root any = base
	if base == nil {
		root = map[string]any{}
	}
	return place(root, tokens, value, pointer)
}

// place recursively copies the containers along the token path and
// sets value at the end. node is never modified.
func place(node any, tokens []string, value any, pointer string) (any, error) {
	token := tokens[0]
	last := len(tokens) == 1

	switch container := node.(type) {
	case map[string]any:
		clone := maps.Clone(container)
		if clone == nil {
			clone = map[string]any{}
		}
		if last {
			clone[token] = value
			return clone, nil
		}
		child, ok := clone[token]
		if !ok || child == nil {
			child = newContainer(tokens[1])
		}
		merged, err := place(child, tokens[1:], value, pointer)
		if err != nil {
			return nil, err
		}
		clone[token] = merged
		return clone, nil

	case []any:
		index, err := arrayIndex(token, len(container), true)
		if err != nil {
			return nil, &InvalidPointerError{Pointer: pointer, Reason: err.Error()}
		}
		clone := make([]any, len(container), len(container)+1)
		copy(clone, container)
		if index == len(clone) {
			appended, err := childValue(nil, tokens, value, pointer, last)
			if err != nil {
				return nil, err
			}
			return append(clone, appended), nil
		}
		replaced, err := childValue(clone[index], tokens, value, pointer, last)
		if err != nil {
			return nil, err
		}
		clone[index] = replaced
		return clone, nil

	default:
		return nil, &InvalidPointerError{Pointer: pointer, Reason: fmt.Sprintf("cannot descend into %T with token %q", node, token)}
	}
}

// childValue computes the value stored at an array slot: the merge
// value itself on the final token, otherwise the recursive placement
// into the existing child (or a freshly created container).
func childValue(existing any, tokens []string, value any, pointer string, last bool) (any, error) {
	if last {
		return value, nil
	}
	if existing == nil {
		existing = newContainer(tokens[1])
	}
	return place(existing, tokens[1:], value, pointer)
}

// newContainer picks the container type implied by the next token:
// array positions get arrays, member names get objects.
func newContainer(nextToken string) any {
	if nextToken == "-" || isDigits(nextToken) {
		return []any{}
	}
	return map[string]any{}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// arrayIndex validates an array reference token against RFC 6901:
// "-" (append position, only where allowAppend permits), "0", or a
// nonzero sequence of digits without leading zeros. When allowAppend
// is set an index equal to length is accepted and means append.
func arrayIndex(token string, length int, allowAppend bool) (int, error) {
	if token == "-" {
		if !allowAppend {
			return 0, fmt.Errorf("token \"-\" addresses the position past the end of the array")
		}
		return length, nil
	}
	if !isDigits(token) {
		return 0, fmt.Errorf("array index %q is not a number", token)
	}
	if len(token) > 1 && token[0] == '0' {
		return 0, fmt.Errorf("array index %q has leading zeros", token)
	}
	index := 0
	for i := 0; i < len(token); i++ {
		index = index*10 + int(token[i]-'0')
		if index > 1<<28 {
			return 0, fmt.Errorf("array index %q is out of range", token)
		}
	}
	limit := length
	if allowAppend {
		limit = length + 1
	}
	if index >= limit {
		return 0, fmt.Errorf("array index %d out of range for length %d", index, length)
	}
	return index, nil
}
