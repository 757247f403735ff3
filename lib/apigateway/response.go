// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package apigateway

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

const jsonContentType = "application/json"

// SchemaResponse renders a schema response as a proxy response with
// status 200. In header mode the protocol rides the response headers
// and the body is empty; in body mode the body is the response
// document.
func SchemaResponse(schema any, mode Mode, options ...concierge.ResponseOption) (events.APIGatewayProxyResponse, error) {
	response, err := concierge.NewSchemaResponse(schema, options...)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if mode == ModeHeaders {
		headers, err := response.Headers()
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 200, Headers: headers}, nil
	}
	payload, err := response.Payload()
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return bodyResponse(200, payload)
}

// ErrorResponse renders a protocol error response as a proxy response
// with status 400. Options typically attach the schema
// ([concierge.WithSchema]) so the caller can correct itself.
func ErrorResponse(message string, mode Mode, options ...concierge.ResponseOption) (events.APIGatewayProxyResponse, error) {
	response, err := concierge.NewErrorResponse(message, options...)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if mode == ModeHeaders {
		headers, err := response.Headers()
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 400, Headers: headers}, nil
	}
	payload, err := response.Payload()
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return bodyResponse(400, payload)
}

// bodyResponse marshals a payload document into a JSON proxy
// response.
func bodyResponse(status int, payload map[string]any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": jsonContentType},
		Body:       string(body),
	}, nil
}
