// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/concierge/lib/concierge"
	"github.com/bureau-foundation/concierge/lib/netutil"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the base URL of the concierge service
	// (e.g., "http://localhost:8080").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// ClientName identifies this caller to the service. When set it is
	// sent as the client protocol field on every request.
	ClientName string
	// HeaderTransport selects the reserved-header transport instead of
	// the JSON body transport for outbound requests.
	HeaderTransport bool
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to one concierge service.
// It holds the service URL and HTTP transport, safe for concurrent use.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	clientName      string
	headerTransport bool
	logger          *slog.Logger
}

// New creates a client for the service at config.BaseURL.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}

	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:         strings.TrimRight(config.BaseURL, "/"),
		httpClient:      httpClient,
		clientName:      config.ClientName,
		headerTransport: config.HeaderTransport,
		logger:          logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call this after a network disruption to
// force subsequent requests to establish fresh TCP connections instead
// of reusing a poisoned pooled connection.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// FetchSchema asks the service to describe itself. The returned
// response carries the schema, any usage instructions, and the opaque
// state token to replay on the follow-up invocation. A protocol error
// reply is returned as a *ServiceError.
func (c *Client) FetchSchema(ctx context.Context) (*concierge.Response, error) {
	var (
		httpResponse *http.Response
		raw          []byte
		err          error
	)
	if c.headerTransport {
		httpResponse, raw, err = c.post(ctx, nil, concierge.SchemaRequestHeaders(c.clientName))
	} else {
		httpResponse, raw, err = c.post(ctx, concierge.SchemaRequestPayload(c.clientName), nil)
	}
	if err != nil {
		return nil, err
	}

	response, err := c.parseReply(httpResponse, raw)
	if err != nil {
		return nil, err
	}
	if response.Kind() == concierge.KindError {
		return nil, &ServiceError{
			Message:    response.ErrorMessage(),
			Schema:     response.Schema(),
			StatusCode: httpResponse.StatusCode,
		}
	}

	c.logger.Debug("fetched concierge schema",
		"url", c.baseURL,
		"has_state", response.HasState(),
	)
	return response, nil
}

// Invoke submits a business payload. stateToken is the token from the
// schema response (or a previous error response), replayed verbatim;
// pass nil when the service minted none. On success the service's
// result object is returned. A protocol error reply is returned as a
// *ServiceError whose Schema tells the caller how to repair the payload.
func (c *Client) Invoke(ctx context.Context, payload map[string]any, stateToken any) (map[string]any, error) {
	var (
		httpResponse *http.Response
		raw          []byte
		err          error
	)
	if c.headerTransport {
		headers, headerErr := concierge.InvocationHeaders(c.clientName, stateToken)
		if headerErr != nil {
			return nil, fmt.Errorf("client: %w", headerErr)
		}
		httpResponse, raw, err = c.post(ctx, payload, headers)
	} else {
		httpResponse, raw, err = c.post(ctx, concierge.InvocationPayload(payload, c.clientName, stateToken), nil)
	}
	if err != nil {
		return nil, err
	}

	if httpResponse.StatusCode >= 200 && httpResponse.StatusCode < 300 {
		var result any
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("client: result from %s is not JSON: %w", c.baseURL, err)
		}
		object, ok := result.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("client: service returned %T, expected a JSON object", result)
		}
		return object, nil
	}

	// Non-2xx replies carry a protocol error response in the reply's
	// transport. Anything else is a transport-level failure.
	response, parseErr := c.parseReply(httpResponse, raw)
	if parseErr != nil {
		return nil, fmt.Errorf("client: unexpected %d response from %s: %s",
			httpResponse.StatusCode, c.baseURL, string(raw))
	}
	return nil, &ServiceError{
		Message:    response.ErrorMessage(),
		Schema:     response.Schema(),
		StatusCode: httpResponse.StatusCode,
	}
}

// post sends one protocol request. requestBody may be nil for requests
// whose protocol fields ride entirely in headers. The response body is
// fully read before returning.
func (c *Client) post(ctx context.Context, requestBody any, protocolHeaders map[string]string) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, nil, fmt.Errorf("client: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("client: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for name, value := range protocolHeaders {
		request.Header.Set(name, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, nil, fmt.Errorf("client: request to %s failed: %w", c.baseURL, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("client: failed to read response body: %w", err)
	}

	return response, responseBody, nil
}

// parseReply parses a protocol response from whichever transport the
// service answered in: reserved headers when present, the JSON body
// otherwise.
func (c *Client) parseReply(httpResponse *http.Response, raw []byte) (*concierge.Response, error) {
	headers := make(map[string]string, len(httpResponse.Header))
	for name := range httpResponse.Header {
		headers[name] = httpResponse.Header.Get(name)
	}

	if concierge.HasProtocolHeaders(headers) {
		response, err := concierge.ParseResponseHeaders(headers)
		if err != nil {
			return nil, fmt.Errorf("client: parsing response headers: %w", err)
		}
		return response, nil
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("client: response from %s is not a protocol message: %w", c.baseURL, err)
	}
	response, err := concierge.ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("client: parsing response: %w", err)
	}
	return response, nil
}
