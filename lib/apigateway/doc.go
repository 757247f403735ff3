// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package apigateway speaks the concierge protocol over API Gateway
// proxy events. It classifies and loads
// [events.APIGatewayProxyRequest] values, renders
// [events.APIGatewayProxyResponse] values from schema and error
// responses, and wraps whole handlers.
//
// The protocol rides in one of two places, chosen by [Mode]: inside
// the JSON body ([ModeBody]) or in the HTTP headers ([ModeHeaders],
// which leaves the body as pure business payload). Services pick one
// mode and use it for every exchange.
package apigateway
