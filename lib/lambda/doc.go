// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lambda wraps AWS Lambda handlers with concierge protocol
// handling for direct-invocation events (the event is the JSON body;
// there are no headers). A wrapped handler answers schema requests
// with the service's schema document and unwraps invocation requests
// before the business handler runs, so the handler only ever sees
// plain business payloads.
//
//	handler := lambda.Wrap(createTicket, schema,
//		lambda.WithInstructions("Fill in the ticket fields."),
//		lambda.WithErrorResponses(),
//	)
//
// [Typed] derives the schema from a parameter struct and decodes
// invocation payloads into it:
//
//	handler, err := lambda.Typed(func(ctx context.Context, params TicketParams) (any, error) {
//		return createTicket(ctx, params)
//	})
//
// Handlers that need the invocation's state value should load the
// event with the concierge package's invocation loaders instead of
// using this middleware; the wrapper decodes state only to validate
// it.
//
// For HTTP-shaped events (API Gateway proxy integration, with real
// headers), use the apigateway package instead.
package lambda
