// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import "strings"

// IsSchemaRequest reports whether a message asks for the service's
// schema: the [FieldSchema] key present (headers take precedence over
// the body) with the value [SchemaRequestSentinel]. Key and sentinel
// matching are case-insensitive.
func IsSchemaRequest(body map[string]any, headers map[string]string) bool {
	value, ok := lookupField(body, headers, FieldSchema)
	if !ok {
		return false
	}
	text, ok := value.(string)
	return ok && strings.EqualFold(text, SchemaRequestSentinel)
}

// IsInvocationRequest reports whether a message is an invocation.
// Every message that is not a schema request is one: the two
// classifications are disjoint and cover all messages, so plain
// requests from clients unaware of this protocol are invocations.
func IsInvocationRequest(body map[string]any, headers map[string]string) bool {
	return !IsSchemaRequest(body, headers)
}
