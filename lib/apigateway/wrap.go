// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apigateway

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

// Handler is a business handler for wrapped proxy endpoints. It
// receives both the raw proxy event (for path, method, and
// authorizer data) and the loaded invocation (business payload with
// protocol fields stripped, client, state).
type Handler func(ctx context.Context, request events.APIGatewayProxyRequest, invocation concierge.InvocationRequest) (events.APIGatewayProxyResponse, error)

// StateFunc mints the state value attached to a schema response,
// once per schema request.
type StateFunc func(ctx context.Context, request events.APIGatewayProxyRequest) (any, error)

// Option adjusts how [Wrap] handles protocol traffic.
type Option func(*settings)

type settings struct {
	instructions    string
	serializedState bool
	mintState       StateFunc
}

// WithInstructions attaches natural-language guidance to schema
// responses.
func WithInstructions(text string) Option {
	return func(s *settings) { s.instructions = text }
}

// WithSerializedState selects the serialized state contract for
// body-mode exchanges. Header-mode state is always a serialized
// token.
func WithSerializedState() Option {
	return func(s *settings) { s.serializedState = true }
}

// WithState attaches per-request state to schema responses.
func WithState(mint StateFunc) Option {
	return func(s *settings) { s.mintState = mint }
}

// Wrap surrounds a business handler with concierge protocol handling.
// Schema requests short-circuit to a 200 schema response. Invocations
// are loaded and handed to the handler; load failures render as 400
// protocol error responses carrying the schema, since over HTTP the
// status line is the error channel.
func Wrap(handler Handler, schema any, mode Mode, options ...Option) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var s settings
	for _, option := range options {
		option(&s)
	}

	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if IsSchemaRequest(request, mode) {
			responseOptions := []concierge.ResponseOption{}
			if s.instructions != "" {
				responseOptions = append(responseOptions, concierge.WithInstructions(s.instructions))
			}
			if s.mintState != nil {
				state, err := s.mintState(ctx, request)
				if err != nil {
					return events.APIGatewayProxyResponse{}, err
				}
				if s.serializedState || mode == ModeHeaders {
					responseOptions = append(responseOptions, concierge.WithState(state))
				} else {
					responseOptions = append(responseOptions, concierge.WithRawState(state))
				}
			}
			return SchemaResponse(schema, mode, responseOptions...)
		}

		invocation, err := LoadInvocationRequest(request, mode, s.serializedState)
		if err != nil {
			return ErrorResponse(err.Error(), mode, concierge.WithSchema(schema))
		}
		return handler(ctx, request, invocation)
	}
}
