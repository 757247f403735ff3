// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apigateway

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

// Mode selects where the concierge protocol rides in an API Gateway
// proxy exchange.
type Mode int

const (
	// ModeBody carries protocol fields inside the JSON body.
	ModeBody Mode = iota

	// ModeHeaders carries protocol fields in HTTP headers. The body
	// stays pure business payload.
	ModeHeaders
)

// String returns the mode name as used in configuration files.
func (m Mode) String() string {
	switch m {
	case ModeBody:
		return "body"
	case ModeHeaders:
		return "headers"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode reads a mode name from configuration ("body" or
// "headers").
func ParseMode(name string) (Mode, error) {
	switch name {
	case "body":
		return ModeBody, nil
	case "headers":
		return ModeHeaders, nil
	}
	return 0, fmt.Errorf("unknown protocol mode %q (valid: body, headers)", name)
}

// requestBody returns the proxy request's body bytes, decoding the
// base64 wrapping API Gateway applies to binary payloads.
func requestBody(request events.APIGatewayProxyRequest) ([]byte, error) {
	if !request.IsBase64Encoded {
		return []byte(request.Body), nil
	}
	data, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		return nil, &concierge.InvalidRequestError{Reason: "body is marked base64 but does not decode"}
	}
	return data, nil
}

// bodyObject parses the request body as a JSON object. A missing
// body, non-JSON body, or non-object document returns ok=false.
func bodyObject(request events.APIGatewayProxyRequest) (map[string]any, bool) {
	data, err := requestBody(request)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// IsSchemaRequest reports whether a proxy request is a schema request
// under the given mode. In header mode only the headers are
// consulted; in body mode the body must be a JSON object carrying the
// request sentinel.
func IsSchemaRequest(request events.APIGatewayProxyRequest, mode Mode) bool {
	if mode == ModeHeaders {
		return concierge.IsSchemaRequest(nil, request.Headers)
	}
	payload, ok := bodyObject(request)
	if !ok {
		return false
	}
	return concierge.IsSchemaRequest(payload, nil)
}

// LoadSchemaRequest loads a schema request from a proxy request.
func LoadSchemaRequest(request events.APIGatewayProxyRequest, mode Mode) (concierge.SchemaRequest, error) {
	if mode == ModeHeaders {
		return concierge.LoadSchemaRequest(nil, request.Headers)
	}
	payload, ok := bodyObject(request)
	if !ok {
		return concierge.SchemaRequest{}, &concierge.InvalidRequestError{Reason: "body is not a JSON object"}
	}
	return concierge.LoadSchemaRequest(payload, nil)
}

// LoadInvocationRequest loads an invocation from a proxy request.
//
// In body mode the body must be a JSON object; protocol fields are
// stripped from it and serialized selects the state contract. In
// header mode the protocol lives in the headers and the body is the
// business payload: a JSON body is decoded, any other non-empty body
// passes through as a string, and header state is always a serialized
// token.
func LoadInvocationRequest(request events.APIGatewayProxyRequest, mode Mode, serialized bool) (concierge.InvocationRequest, error) {
	if mode == ModeHeaders {
		payload, err := headerModePayload(request)
		if err != nil {
			return concierge.InvocationRequest{}, err
		}
		return concierge.LoadInvocationHeaders(request.Headers, payload)
	}

	payload, ok := bodyObject(request)
	if !ok {
		return concierge.InvocationRequest{}, &concierge.InvalidRequestError{Reason: "body is not a JSON object"}
	}
	return concierge.LoadInvocationPayload(payload, serialized)
}

// headerModePayload extracts the business payload for header-mode
// invocations: decoded JSON when the body is JSON, the raw string
// otherwise, nil when absent.
func headerModePayload(request events.APIGatewayProxyRequest) (any, error) {
	data, err := requestBody(request)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return string(data), nil
	}
	return payload, nil
}
