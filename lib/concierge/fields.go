// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"maps"
	"strings"
)

// FieldPrefix marks every key the protocol reserves. Keys under this
// prefix never reach business payloads: loading an invocation strips
// them all, including ones this version does not know about.
const FieldPrefix = "x-api-concierge-"

// Reserved field names. Field matching on inbound messages is
// case-insensitive in both transports, following HTTP header
// convention; outbound messages always use these lowercase forms.
const (
	// FieldSchema carries the schema-request sentinel in requests
	// and the JSON Schema document in schema responses.
	FieldSchema = FieldPrefix + "schema"

	// FieldResponse marks a message as a service response and names
	// its kind ([KindSchema] or [KindError]).
	FieldResponse = FieldPrefix + "response"

	// FieldInstructions carries optional natural-language guidance
	// for whoever fills in the schema.
	FieldInstructions = FieldPrefix + "instructions"

	// FieldClient identifies the calling client.
	FieldClient = FieldPrefix + "client"

	// FieldState carries the opaque state token.
	FieldState = FieldPrefix + "state"

	// FieldError carries the message of an error response.
	FieldError = FieldPrefix + "error"

	// FieldBase carries the merged template document in header
	// transport, where it cannot be spread into the body.
	FieldBase = FieldPrefix + "base"
)

// SchemaRequestSentinel is the value of [FieldSchema] that marks a
// message as a schema request.
const SchemaRequestSentinel = "request"

// ResponseKind names the two kinds of protocol response.
type ResponseKind string

const (
	// KindSchema marks a schema response.
	KindSchema ResponseKind = "schema"

	// KindError marks an error response.
	KindError ResponseKind = "error"
)

// isReservedField reports whether a key belongs to the protocol's
// reserved namespace, under case-insensitive matching.
func isReservedField(name string) bool {
	return len(name) >= len(FieldPrefix) && strings.EqualFold(name[:len(FieldPrefix)], FieldPrefix)
}

// lookupBody finds field in a body document by case-insensitive key
// match. An exact match wins without scanning.
func lookupBody(body map[string]any, field string) (any, bool) {
	if body == nil {
		return nil, false
	}
	if value, ok := body[field]; ok {
		return value, true
	}
	for name, value := range body {
		if strings.EqualFold(name, field) {
			return value, true
		}
	}
	return nil, false
}

// lookupHeader finds field in a header mapping by case-insensitive
// key match.
func lookupHeader(headers map[string]string, field string) (string, bool) {
	if headers == nil {
		return "", false
	}
	if value, ok := headers[field]; ok {
		return value, true
	}
	for name, value := range headers {
		if strings.EqualFold(name, field) {
			return value, true
		}
	}
	return "", false
}

// lookupField resolves a logical field across both transports:
// headers take precedence when the key appears there, otherwise the
// body is consulted.
func lookupField(body map[string]any, headers map[string]string, field string) (any, bool) {
	if value, ok := lookupHeader(headers, field); ok {
		return value, true
	}
	return lookupBody(body, field)
}

// headersCarryProtocol reports whether any reserved key is present in
// the header mapping, which selects header transport for the message.
func headersCarryProtocol(headers map[string]string) bool {
	for name := range headers {
		if isReservedField(name) {
			return true
		}
	}
	return false
}

// HasProtocolHeaders reports whether any reserved protocol field
// appears among the headers. HTTP servers use it to decide whether an
// exchange rides header transport before choosing a loader.
func HasProtocolHeaders(headers map[string]string) bool {
	return headersCarryProtocol(headers)
}

// stripReserved returns a copy of body without any reserved keys. A
// nil body yields an empty map so callers always receive a usable
// payload document.
func stripReserved(body map[string]any) map[string]any {
	payload := make(map[string]any, len(body))
	maps.Copy(payload, body)
	for name := range payload {
		if isReservedField(name) {
			delete(payload, name)
		}
	}
	return payload
}
