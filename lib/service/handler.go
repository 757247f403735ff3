// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

// maxBodyBytes caps protocol request bodies. Schema requests are tiny
// and invocation payloads are single JSON documents; anything past
// this is abuse.
const maxBodyBytes = 1 << 20

// Invoker executes one business invocation. The returned value
// marshals to the JSON response body; an error becomes a protocol
// error response.
type Invoker func(ctx context.Context, invocation concierge.InvocationRequest) (any, error)

// StateFunc mints the state value attached to a schema response,
// once per schema request.
type StateFunc func(ctx context.Context, request *http.Request) (any, error)

// ProtocolHandlerConfig configures a [ProtocolHandler].
type ProtocolHandlerConfig struct {
	// Schema is the schema document served to schema requests.
	// Required.
	Schema any

	// Invoker executes business invocations. Required.
	Invoker Invoker

	// Instructions is optional natural-language guidance attached to
	// schema responses.
	Instructions string

	// SerializedState selects the serialized state contract for
	// body-transport exchanges. Header-transport state is always a
	// serialized token.
	SerializedState bool

	// MintState attaches per-request state to schema responses.
	// Optional.
	MintState StateFunc

	// ETag is the entity tag for the schema document, typically the
	// schema fingerprint. When set, schema responses carry it and
	// If-None-Match requests short-circuit to 304.
	ETag string

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// ProtocolHandler serves the concierge protocol over HTTP. Each POST
// is classified per request: reserved headers select header
// transport, otherwise the protocol rides the JSON body. Schema
// requests short-circuit to the schema document; invocations are
// loaded and dispatched to the invoker; load and invoker failures
// render as 400 protocol error responses carrying the schema.
// Responses answer in the transport the request used.
func ProtocolHandler(config ProtocolHandlerConfig) http.Handler {
	if config.Schema == nil {
		panic("service.ProtocolHandler: Schema is required")
	}
	if config.Invoker == nil {
		panic("service.ProtocolHandler: Invoker is required")
	}
	if config.Logger == nil {
		panic("service.ProtocolHandler: Logger is required")
	}
	return &protocolHandler{config: config}
}

type protocolHandler struct {
	config ProtocolHandlerConfig
}

func (h *protocolHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "concierge endpoint accepts POST only", http.StatusMethodNotAllowed)
		h.log(r, "rejected", http.StatusMethodNotAllowed, started)
		return
	}

	headers := flattenHeaders(r.Header)
	headerTransport := concierge.HasProtocolHeaders(headers)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, headerTransport, "reading request body failed", started)
		return
	}

	if headerTransport {
		h.serveHeaderTransport(w, r, headers, body, started)
		return
	}
	h.serveBodyTransport(w, r, body, started)
}

// serveBodyTransport handles an exchange whose protocol fields ride
// the JSON body.
func (h *protocolHandler) serveBodyTransport(w http.ResponseWriter, r *http.Request, body []byte, started time.Time) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		h.writeError(w, r, false, "request body is not a JSON object", started)
		return
	}

	if concierge.IsSchemaRequest(payload, nil) {
		h.serveSchema(w, r, false, started)
		return
	}

	invocation, err := concierge.LoadInvocationPayload(payload, h.config.SerializedState)
	if err != nil {
		h.writeError(w, r, false, err.Error(), started)
		return
	}
	h.invoke(w, r, false, invocation, started)
}

// serveHeaderTransport handles an exchange whose protocol fields ride
// the HTTP headers; the body is pure business payload.
func (h *protocolHandler) serveHeaderTransport(w http.ResponseWriter, r *http.Request, headers map[string]string, body []byte, started time.Time) {
	if concierge.IsSchemaRequest(nil, headers) {
		h.serveSchema(w, r, true, started)
		return
	}

	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = string(body)
		}
	}
	invocation, err := concierge.LoadInvocationHeaders(headers, payload)
	if err != nil {
		h.writeError(w, r, true, err.Error(), started)
		return
	}
	h.invoke(w, r, true, invocation, started)
}

// serveSchema renders the schema response, honoring conditional
// requests against the schema's entity tag.
func (h *protocolHandler) serveSchema(w http.ResponseWriter, r *http.Request, headerTransport bool, started time.Time) {
	if h.config.ETag != "" {
		w.Header().Set("ETag", `"`+h.config.ETag+`"`)
		if etagMatches(r.Header.Get("If-None-Match"), h.config.ETag) {
			w.WriteHeader(http.StatusNotModified)
			h.log(r, "schema cached", http.StatusNotModified, started)
			return
		}
	}

	options := []concierge.ResponseOption{}
	if h.config.Instructions != "" {
		options = append(options, concierge.WithInstructions(h.config.Instructions))
	}
	if h.config.MintState != nil {
		state, err := h.config.MintState(r.Context(), r)
		if err != nil {
			h.writeError(w, r, headerTransport, err.Error(), started)
			return
		}
		if h.config.SerializedState || headerTransport {
			options = append(options, concierge.WithState(state))
		} else {
			options = append(options, concierge.WithRawState(state))
		}
	}

	response, err := concierge.NewSchemaResponse(h.config.Schema, options...)
	if err != nil {
		h.internalError(w, r, err, started)
		return
	}

	if headerTransport {
		rendered, err := response.Headers()
		if err != nil {
			h.internalError(w, r, err, started)
			return
		}
		for name, value := range rendered {
			w.Header().Set(name, value)
		}
		w.WriteHeader(http.StatusOK)
		h.log(r, "schema", http.StatusOK, started)
		return
	}

	rendered, err := response.Payload()
	if err != nil {
		h.internalError(w, r, err, started)
		return
	}
	h.writeJSON(w, r, http.StatusOK, rendered, "schema", started)
}

// invoke dispatches a loaded invocation to the business invoker.
func (h *protocolHandler) invoke(w http.ResponseWriter, r *http.Request, headerTransport bool, invocation concierge.InvocationRequest, started time.Time) {
	result, err := h.config.Invoker(r.Context(), invocation)
	if err != nil {
		h.writeError(w, r, headerTransport, err.Error(), started)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result, "invocation", started)
}

// writeError renders a protocol error response with status 400 in
// the request's transport, attaching the schema so the caller can
// correct itself.
func (h *protocolHandler) writeError(w http.ResponseWriter, r *http.Request, headerTransport bool, message string, started time.Time) {
	response, err := concierge.NewErrorResponse(message, concierge.WithSchema(h.config.Schema))
	if err != nil {
		h.internalError(w, r, err, started)
		return
	}

	if headerTransport {
		rendered, err := response.Headers()
		if err != nil {
			h.internalError(w, r, err, started)
			return
		}
		for name, value := range rendered {
			w.Header().Set(name, value)
		}
		w.WriteHeader(http.StatusBadRequest)
		h.log(r, "error: "+message, http.StatusBadRequest, started)
		return
	}

	rendered, err := response.Payload()
	if err != nil {
		h.internalError(w, r, err, started)
		return
	}
	h.writeJSON(w, r, http.StatusBadRequest, rendered, "error: "+message, started)
}

// writeJSON marshals a value as the JSON response body.
func (h *protocolHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, value any, kind string, started time.Time) {
	data, err := json.Marshal(value)
	if err != nil {
		h.internalError(w, r, err, started)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	h.log(r, kind, status, started)
}

// internalError reports a server-side rendering failure. These are
// service bugs (unmarshalable schema, reserved keys in a template),
// not client mistakes.
func (h *protocolHandler) internalError(w http.ResponseWriter, r *http.Request, err error, started time.Time) {
	h.config.Logger.Error("concierge response rendering failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
	h.log(r, "internal error", http.StatusInternalServerError, started)
}

func (h *protocolHandler) log(r *http.Request, kind string, status int, started time.Time) {
	h.config.Logger.Info("concierge request",
		"method", r.Method,
		"path", r.URL.Path,
		"kind", kind,
		"status", status,
		"duration", time.Since(started),
	)
}

// flattenHeaders reduces an http.Header to the single-value mapping
// the protocol loaders expect. Reserved fields are never multi-valued.
func flattenHeaders(header http.Header) map[string]string {
	flattened := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			flattened[name] = values[0]
		}
	}
	return flattened
}

// etagMatches reports whether an If-None-Match header value names the
// given entity tag, tolerating quoting and weak validators.
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		candidate = strings.Trim(candidate, `"`)
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
