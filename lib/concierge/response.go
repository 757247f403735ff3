// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/concierge/lib/jsonptr"
)

// responseCore holds the fields shared by schema and error responses.
type responseCore struct {
	schema         any
	instructions   string
	state          any
	hasState       bool
	serializeState bool
	base           map[string]any
	path           string
	value          any
	hasValue       bool
}

// ResponseOption configures a response under construction. Options
// are applied by [NewSchemaResponse] and [NewErrorResponse]; an
// option error fails the whole construction.
type ResponseOption func(*responseCore) error

// WithInstructions attaches natural-language guidance for whoever
// fills in the schema.
func WithInstructions(text string) ResponseOption {
	return func(core *responseCore) error {
		core.instructions = text
		return nil
	}
}

// WithState attaches a state value under the serialized contract: the
// rendered response carries a base64 string token, and the matching
// invocation must be loaded with serialized set.
func WithState(value any) ResponseOption {
	return func(core *responseCore) error {
		core.state = value
		core.hasState = true
		core.serializeState = true
		return nil
	}
}

// WithRawState attaches a state value under the raw contract: the
// body-transport response carries the value as-is. Header rendering
// still serializes, since header values must be strings.
func WithRawState(value any) ResponseOption {
	return func(core *responseCore) error {
		core.state = value
		core.hasState = true
		core.serializeState = false
		return nil
	}
}

// WithBase attaches a template document for the response to merge
// into. The base must not contain reserved keys.
func WithBase(base map[string]any) ResponseOption {
	return func(core *responseCore) error {
		core.base = base
		return nil
	}
}

// WithPath names where inside the base document the collected value
// belongs, as an RFC 6901 JSON Pointer. The pointer is validated
// eagerly; combining a path with no base fails construction.
func WithPath(pointer string) ResponseOption {
	return func(core *responseCore) error {
		if _, err := jsonptr.Parse(pointer); err != nil {
			return err
		}
		core.path = pointer
		return nil
	}
}

// WithValue supplies the value merged into the base document,
// overriding the placeholder otherwise derived from the schema.
func WithValue(value any) ResponseOption {
	return func(core *responseCore) error {
		core.value = value
		core.hasValue = true
		return nil
	}
}

// WithSchema attaches a schema document to an error response, telling
// the client what a corrected invocation should look like.
func WithSchema(schema any) ResponseOption {
	return func(core *responseCore) error {
		core.schema = schema
		return nil
	}
}

// SchemaResponse is a service's answer to a schema request: the
// schema document, optional instructions and state, and optionally a
// template (base and path) the collected value belongs inside.
// Instances are built by [NewSchemaResponse] and are read-only;
// render with [SchemaResponse.Payload] or [SchemaResponse.Headers].
type SchemaResponse struct {
	core responseCore
}

// NewSchemaResponse builds a schema response. The schema document is
// required; everything else arrives through options.
func NewSchemaResponse(schema any, options ...ResponseOption) (*SchemaResponse, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema response: schema document is required")
	}
	core, err := buildCore(options, WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("schema response: %w", err)
	}
	return &SchemaResponse{core: core}, nil
}

// Payload renders the response for body transport. See renderPayload
// for the document layout.
func (r *SchemaResponse) Payload() (map[string]any, error) {
	return renderPayload(KindSchema, r.core, "")
}

// Headers renders the response for header transport. See
// renderHeaders for the mapping layout.
func (r *SchemaResponse) Headers() (map[string]string, error) {
	return renderHeaders(KindSchema, r.core, "")
}

// ErrorResponse reports a failed invocation in protocol terms,
// optionally carrying a schema for the corrected retry. Instances
// are built by [NewErrorResponse] and are read-only.
type ErrorResponse struct {
	message string
	core    responseCore
}

// NewErrorResponse builds an error response. The message is required;
// a schema and the other response fields arrive through options.
func NewErrorResponse(message string, options ...ResponseOption) (*ErrorResponse, error) {
	if message == "" {
		return nil, fmt.Errorf("error response: message is required")
	}
	core, err := buildCore(options)
	if err != nil {
		return nil, fmt.Errorf("error response: %w", err)
	}
	return &ErrorResponse{message: message, core: core}, nil
}

// Message returns the error message.
func (r *ErrorResponse) Message() string {
	return r.message
}

// Payload renders the response for body transport.
func (r *ErrorResponse) Payload() (map[string]any, error) {
	return renderPayload(KindError, r.core, r.message)
}

// Headers renders the response for header transport.
func (r *ErrorResponse) Headers() (map[string]string, error) {
	return renderHeaders(KindError, r.core, r.message)
}

// buildCore applies options and validates the combination. extra
// options run first so explicit caller options win where they
// overlap.
func buildCore(options []ResponseOption, extra ...ResponseOption) (responseCore, error) {
	core := responseCore{serializeState: true}
	for _, option := range extra {
		if err := option(&core); err != nil {
			return responseCore{}, err
		}
	}
	for _, option := range options {
		if err := option(&core); err != nil {
			return responseCore{}, err
		}
	}
	if core.path != "" && core.base == nil {
		return responseCore{}, fmt.Errorf("path %q requires a base document", core.path)
	}
	return core, nil
}

// renderPayload assembles the body-transport document: the response
// marker, the schema document, optional instructions and error
// message, the encoded state token, and, when a base is present, the
// merged template document spread at the top level beside the
// reserved keys. Rendering is atomic; any failure yields no document.
func renderPayload(kind ResponseKind, core responseCore, message string) (map[string]any, error) {
	payload := map[string]any{FieldResponse: string(kind)}
	if core.schema != nil {
		payload[FieldSchema] = core.schema
	}
	if core.instructions != "" {
		payload[FieldInstructions] = core.instructions
	}
	if message != "" {
		payload[FieldError] = message
	}
	if core.hasState {
		token, err := EncodeState(core.state, core.serializeState)
		if err != nil {
			return nil, err
		}
		payload[FieldState] = token
	}
	if core.base != nil {
		document, err := mergedDocument(core)
		if err != nil {
			return nil, err
		}
		for name, value := range document {
			payload[name] = value
		}
	}
	return payload, nil
}

// renderHeaders assembles the header-transport mapping. Every value
// is a string: sentinels and plain-text fields verbatim, the schema
// and the merged template as canonical JSON text, and the state
// always as a serialized token regardless of the body-transport
// contract.
func renderHeaders(kind ResponseKind, core responseCore, message string) (map[string]string, error) {
	headers := map[string]string{FieldResponse: string(kind)}
	if core.schema != nil {
		text, err := canonicalJSON(core.schema)
		if err != nil {
			return nil, fmt.Errorf("encoding schema header: %w", err)
		}
		headers[FieldSchema] = text
	}
	if core.instructions != "" {
		headers[FieldInstructions] = core.instructions
	}
	if message != "" {
		headers[FieldError] = message
	}
	if core.hasState {
		token, err := EncodeState(core.state, true)
		if err != nil {
			return nil, err
		}
		headers[FieldState] = token.(string)
	}
	if core.base != nil {
		document, err := mergedDocument(core)
		if err != nil {
			return nil, err
		}
		text, err := canonicalJSON(document)
		if err != nil {
			return nil, fmt.Errorf("encoding base header: %w", err)
		}
		headers[FieldBase] = text
	}
	return headers, nil
}

// mergedDocument produces the template document: the merge value (an
// explicit one, else the placeholder the schema derives) placed at
// the path inside the base. The result must be an object so body
// transport can spread it, and must not carry reserved keys that
// would impersonate protocol fields.
func mergedDocument(core responseCore) (map[string]any, error) {
	value := core.value
	if !core.hasValue {
		derived, err := SchemaPlaceholder(core.schema)
		if err != nil {
			return nil, err
		}
		value = derived
	}
	merged, err := jsonptr.Merge(core.base, core.path, value)
	if err != nil {
		return nil, err
	}
	document, ok := merged.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("merged template is %T, not an object", merged)
	}
	for name := range document {
		if isReservedField(name) {
			return nil, fmt.Errorf("template document contains reserved key %q", name)
		}
	}
	return document, nil
}

// canonicalJSON renders a value as deterministic JSON text (object
// keys sort lexically on marshal).
func canonicalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
