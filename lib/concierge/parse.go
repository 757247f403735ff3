// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is a client-side view of a parsed service response.
// Instances are built by [ParseResponse] and [ParseResponseHeaders]
// and are read-only.
//
// The state token is deliberately NOT decoded: clients replay it
// verbatim in the follow-up invocation. Only the service that minted
// the token knows its serialization contract.
type Response struct {
	kind         ResponseKind
	schema       any
	instructions string
	errorMessage string
	stateToken   any
	hasState     bool
	document     map[string]any
}

// Kind returns the response kind.
func (r *Response) Kind() ResponseKind {
	return r.kind
}

// Schema returns the schema document, or nil when the response
// carried none.
func (r *Response) Schema() any {
	return r.schema
}

// Instructions returns the natural-language guidance, or "".
func (r *Response) Instructions() string {
	return r.instructions
}

// ErrorMessage returns the error message of an error response, or "".
func (r *Response) ErrorMessage() string {
	return r.errorMessage
}

// StateToken returns the opaque state token exactly as it arrived,
// or nil when the response carried none. Replay it unchanged.
func (r *Response) StateToken() any {
	return r.stateToken
}

// HasState reports whether the response carried a state token. This
// distinguishes an absent token from a raw token that is JSON null.
func (r *Response) HasState() bool {
	return r.hasState
}

// Document returns the template document the response shipped: under
// body transport the non-reserved remainder of the message, under
// header transport the parsed base header. Empty when the response
// carried no template.
func (r *Response) Document() map[string]any {
	return r.document
}

// ParseResponse parses a body-transport service response. A message
// without a recognizable response marker is an [InvalidRequestError].
func ParseResponse(body map[string]any) (*Response, error) {
	kind, err := responseKind(lookupBody(body, FieldResponse))
	if err != nil {
		return nil, err
	}
	response := &Response{kind: kind, document: stripReserved(body)}
	if value, ok := lookupBody(body, FieldSchema); ok {
		response.schema = value
	}
	if value, ok := lookupBody(body, FieldInstructions); ok {
		if text, ok := value.(string); ok {
			response.instructions = text
		}
	}
	if value, ok := lookupBody(body, FieldError); ok {
		if text, ok := value.(string); ok {
			response.errorMessage = text
		}
	}
	if token, ok := lookupBody(body, FieldState); ok {
		response.stateToken = token
		response.hasState = true
	}
	return response, nil
}

// ParseResponseHeaders parses a header-transport service response.
// JSON-valued headers (schema, merged template) are decoded; the
// state token stays the string it arrived as.
func ParseResponseHeaders(headers map[string]string) (*Response, error) {
	marker, ok := lookupHeader(headers, FieldResponse)
	if !ok {
		return nil, &InvalidRequestError{Reason: "message has no response marker"}
	}
	kind, err := responseKind(marker, true)
	if err != nil {
		return nil, err
	}
	response := &Response{kind: kind, document: map[string]any{}}
	if text, ok := lookupHeader(headers, FieldSchema); ok {
		var schema any
		if err := json.Unmarshal([]byte(text), &schema); err != nil {
			return nil, &InvalidRequestError{Reason: fmt.Sprintf("schema header is not valid JSON: %v", err)}
		}
		response.schema = schema
	}
	if text, ok := lookupHeader(headers, FieldInstructions); ok {
		response.instructions = text
	}
	if text, ok := lookupHeader(headers, FieldError); ok {
		response.errorMessage = text
	}
	if token, ok := lookupHeader(headers, FieldState); ok {
		response.stateToken = token
		response.hasState = true
	}
	if text, ok := lookupHeader(headers, FieldBase); ok {
		var document map[string]any
		if err := json.Unmarshal([]byte(text), &document); err != nil {
			return nil, &InvalidRequestError{Reason: fmt.Sprintf("base header is not a JSON object: %v", err)}
		}
		response.document = document
	}
	return response, nil
}

// responseKind validates the response marker value.
func responseKind(value any, ok bool) (ResponseKind, error) {
	if !ok {
		return "", &InvalidRequestError{Reason: "message has no response marker"}
	}
	marker, isString := value.(string)
	if !isString {
		return "", &InvalidRequestError{Reason: fmt.Sprintf("response marker is %T, not a string", value)}
	}
	switch {
	case strings.EqualFold(marker, string(KindSchema)):
		return KindSchema, nil
	case strings.EqualFold(marker, string(KindError)):
		return KindError, nil
	}
	return "", &InvalidRequestError{Reason: fmt.Sprintf("unknown response kind %q", marker)}
}
