// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

// SchemaRequest is a loaded schema request. The zero value is a
// request from an anonymous client; instances are built by
// [LoadSchemaRequest] and are read-only.
type SchemaRequest struct {
	client string
}

// Client returns the requesting client's identifier, or "" when the
// request did not name one.
func (r SchemaRequest) Client() string {
	return r.client
}

// LoadSchemaRequest loads a schema request from either transport. It
// fails with [InvalidRequestError] if and only if the message is not
// a schema request; use [IsSchemaRequest] to route first.
func LoadSchemaRequest(body map[string]any, headers map[string]string) (SchemaRequest, error) {
	if !IsSchemaRequest(body, headers) {
		return SchemaRequest{}, &InvalidRequestError{Reason: "message does not carry the schema request sentinel"}
	}
	return SchemaRequest{client: clientField(body, headers)}, nil
}

// InvocationRequest is a loaded invocation: the business payload with
// every reserved key stripped, plus the client identifier and decoded
// state the reserved keys carried. Instances are built by the load
// functions and are read-only.
type InvocationRequest struct {
	payload any
	client  string
	state   any
}

// Payload returns the business payload. Under body transport this is
// always a map with reserved keys removed; under header transport it
// is whatever the caller supplied, untouched.
func (r InvocationRequest) Payload() any {
	return r.payload
}

// Client returns the invoking client's identifier, or "" when the
// message did not name one.
func (r InvocationRequest) Client() string {
	return r.client
}

// State returns the decoded state value, or nil when the message
// carried none.
func (r InvocationRequest) State() any {
	return r.state
}

// LoadInvocationRequest loads an invocation from whichever transport
// the reserved keys travel in: header transport when any reserved key
// appears in headers, body transport otherwise. The serialized flag
// is the state contract for body transport; header-borne state is
// always a serialized token.
//
// A bare message with no reserved keys anywhere loads successfully
// with an empty client, nil state, and the whole body as payload. The
// only possible failure is a state token that does not decode.
func LoadInvocationRequest(body map[string]any, headers map[string]string, serialized bool) (InvocationRequest, error) {
	if headersCarryProtocol(headers) {
		var payload any
		if body != nil {
			payload = body
		}
		return LoadInvocationHeaders(headers, payload)
	}
	return LoadInvocationPayload(body, serialized)
}

// LoadInvocationPayload loads an invocation whose reserved keys are
// inside the body document. The returned payload is a fresh map; the
// input body is not modified.
func LoadInvocationPayload(body map[string]any, serialized bool) (InvocationRequest, error) {
	request := InvocationRequest{payload: stripReserved(body)}
	if value, ok := lookupBody(body, FieldClient); ok {
		if name, ok := value.(string); ok {
			request.client = name
		}
	}
	if token, ok := lookupBody(body, FieldState); ok {
		state, err := DecodeState(token, serialized)
		if err != nil {
			return InvocationRequest{}, err
		}
		request.state = state
	}
	return request, nil
}

// LoadInvocationHeaders loads an invocation whose reserved keys
// travel as headers. The payload is the business body and passes
// through untouched; header-borne state is always a serialized token.
func LoadInvocationHeaders(headers map[string]string, payload any) (InvocationRequest, error) {
	request := InvocationRequest{payload: payload}
	if name, ok := lookupHeader(headers, FieldClient); ok {
		request.client = name
	}
	if token, ok := lookupHeader(headers, FieldState); ok {
		state, err := DecodeState(token, true)
		if err != nil {
			return InvocationRequest{}, err
		}
		request.state = state
	}
	return request, nil
}

// clientField extracts the client identifier from either transport,
// ignoring non-string values so that loading stays total.
func clientField(body map[string]any, headers map[string]string) string {
	value, ok := lookupField(body, headers, FieldClient)
	if !ok {
		return ""
	}
	name, _ := value.(string)
	return name
}
