// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lambda

import (
	"context"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

// Handler is the AWS Lambda handler shape this package wraps: the
// event is the decoded JSON invocation body, the result marshals to
// the JSON response.
type Handler func(ctx context.Context, event map[string]any) (any, error)

// StateFunc mints the state value attached to a schema response,
// once per schema request. The event is the raw schema-request event.
type StateFunc func(ctx context.Context, event map[string]any) (any, error)

// Option adjusts how [Wrap] handles protocol traffic.
type Option func(*settings)

type settings struct {
	instructions    string
	serializedState bool
	errorResponses  bool
	mintState       StateFunc
}

// WithInstructions attaches natural-language guidance to schema
// responses.
func WithInstructions(text string) Option {
	return func(s *settings) { s.instructions = text }
}

// WithSerializedState selects the serialized state contract for both
// directions: schema responses carry state as an encoded token, and
// invocation state arrives as a token to decode. Without it state
// passes through as raw JSON values.
func WithSerializedState() Option {
	return func(s *settings) { s.serializedState = true }
}

// WithErrorResponses renders invocation-load failures and handler
// errors as concierge error responses (carrying the schema so the
// caller can correct itself) instead of returning Go errors to the
// Lambda runtime.
func WithErrorResponses() Option {
	return func(s *settings) { s.errorResponses = true }
}

// WithState attaches per-request state to schema responses. The mint
// function runs once per schema request; its value rides the
// response under the contract selected by [WithSerializedState].
func WithState(mint StateFunc) Option {
	return func(s *settings) { s.mintState = mint }
}

// Wrap surrounds a business handler with concierge protocol handling.
// Schema requests short-circuit to a schema response built from
// schema and the options; invocation requests are unwrapped (reserved
// fields stripped, state validated) and the plain business payload
// passed to handler. Any other event reaches handler untouched, since
// a bare event is an invocation whose whole body is the payload.
func Wrap(handler Handler, schema any, options ...Option) Handler {
	var s settings
	for _, option := range options {
		option(&s)
	}

	return func(ctx context.Context, event map[string]any) (any, error) {
		if concierge.IsSchemaRequest(event, nil) {
			return schemaResult(ctx, event, schema, s)
		}

		request, err := concierge.LoadInvocationPayload(event, s.serializedState)
		if err != nil {
			return failure(err, schema, s)
		}
		payload, ok := request.Payload().(map[string]any)
		if !ok {
			// Direct-invocation payloads are the stripped event map.
			payload = event
		}

		result, err := handler(ctx, payload)
		if err != nil && s.errorResponses {
			return failure(err, schema, s)
		}
		return result, err
	}
}

// schemaResult renders the schema response for a schema request.
func schemaResult(ctx context.Context, event map[string]any, schema any, s settings) (any, error) {
	responseOptions := []concierge.ResponseOption{}
	if s.instructions != "" {
		responseOptions = append(responseOptions, concierge.WithInstructions(s.instructions))
	}
	if s.mintState != nil {
		state, err := s.mintState(ctx, event)
		if err != nil {
			return failure(err, schema, s)
		}
		if s.serializedState {
			responseOptions = append(responseOptions, concierge.WithState(state))
		} else {
			responseOptions = append(responseOptions, concierge.WithRawState(state))
		}
	}

	response, err := concierge.NewSchemaResponse(schema, responseOptions...)
	if err != nil {
		return nil, err
	}
	return response.Payload()
}

// failure turns an error into either a concierge error response
// payload (when error responses are enabled) or a plain Go error for
// the Lambda runtime.
func failure(cause error, schema any, s settings) (any, error) {
	if !s.errorResponses {
		return nil, cause
	}
	response, err := concierge.NewErrorResponse(cause.Error(), concierge.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	return response.Payload()
}
