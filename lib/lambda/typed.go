// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/concierge/lib/concierge"
	"github.com/bureau-foundation/concierge/lib/simpleschema"
)

// Typed wraps a handler taking a parameter struct. The schema is
// derived from T's json, desc, default, and required struct tags, and
// invocation payloads are decoded into T before the handler runs.
//
// Payloads that do not fit T (unknown fields, wrong types) always
// come back as concierge error responses carrying the schema, since
// telling the caller how to correct itself is the point of publishing
// a schema. Handler errors still follow [WithErrorResponses].
func Typed[T any](handler func(ctx context.Context, params T) (any, error), options ...Option) (Handler, error) {
	schema, err := simpleschema.FromStruct[T]()
	if err != nil {
		return nil, fmt.Errorf("typed handler: %w", err)
	}

	inner := func(ctx context.Context, event map[string]any) (any, error) {
		var params T
		if err := decodeParams(event, &params); err != nil {
			response, buildErr := concierge.NewErrorResponse(
				fmt.Sprintf("invalid parameters: %v", err),
				concierge.WithSchema(schema),
			)
			if buildErr != nil {
				return nil, buildErr
			}
			return response.Payload()
		}
		return handler(ctx, params)
	}

	return Wrap(inner, schema, options...), nil
}

// decodeParams round-trips the business payload through JSON into the
// parameter struct. Unknown fields are rejected, matching the
// closed-object schema [simpleschema.FromStruct] derives.
func decodeParams(event map[string]any, params any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(params)
}
