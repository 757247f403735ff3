// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import "fmt"

// Client-side message builders. These compose the reserved keys for
// outbound requests; the server side parses them with the loaders in
// this package.

// SchemaRequestPayload builds a body-transport schema request. The
// client name is optional.
func SchemaRequestPayload(client string) map[string]any {
	message := map[string]any{FieldSchema: SchemaRequestSentinel}
	if client != "" {
		message[FieldClient] = client
	}
	return message
}

// SchemaRequestHeaders builds a header-transport schema request.
func SchemaRequestHeaders(client string) map[string]string {
	headers := map[string]string{FieldSchema: SchemaRequestSentinel}
	if client != "" {
		headers[FieldClient] = client
	}
	return headers
}

// InvocationPayload builds a body-transport invocation: the business
// payload with the client name and the replayed state token folded
// in. The input map is not modified; reserved keys already in it are
// dropped so they cannot impersonate protocol fields.
func InvocationPayload(payload map[string]any, client string, stateToken any) map[string]any {
	message := make(map[string]any, len(payload)+2)
	for name, value := range payload {
		if isReservedField(name) {
			continue
		}
		message[name] = value
	}
	if client != "" {
		message[FieldClient] = client
	}
	if stateToken != nil {
		message[FieldState] = stateToken
	}
	return message
}

// InvocationHeaders builds the header mapping of a header-transport
// invocation; the business payload travels separately as the body.
// Header transport can only carry string tokens, so a non-string
// state token (a raw-contract value from a body-transport response)
// is rejected rather than re-encoded: re-encoding would corrupt the
// opaque token.
func InvocationHeaders(client string, stateToken any) (map[string]string, error) {
	headers := map[string]string{}
	if client != "" {
		headers[FieldClient] = client
	}
	if stateToken != nil {
		text, ok := stateToken.(string)
		if !ok {
			return nil, fmt.Errorf("header transport requires a string state token, got %T", stateToken)
		}
		headers[FieldState] = text
	}
	return headers, nil
}
