// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodeState produces the wire form of a state value. With serialize
// set, the value is rendered as canonical JSON and wrapped in URL-safe
// base64, yielding a string token that survives any transport. With
// serialize unset, the value passes through unchanged and travels as
// a raw JSON value inside the message body.
//
// The serialize flag is a contract between the response that carries
// the token and the invocation that returns it; the codec never
// guesses from the data.
func EncodeState(value any, serialize bool) (any, error) {
	if !serialize {
		return value, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeState recovers a state value from its wire form under the
// same contract as [EncodeState]. Failures are reported as
// [MalformedStateError]; with serialize unset the token is returned
// unchanged and no failure is possible.
func DecodeState(token any, serialize bool) (any, error) {
	if !serialize {
		return token, nil
	}
	text, ok := token.(string)
	if !ok {
		return nil, &MalformedStateError{Reason: fmt.Sprintf("serialized token must be a string, got %T", token)}
	}
	data, err := base64.URLEncoding.DecodeString(text)
	if err != nil {
		return nil, &MalformedStateError{Reason: "token is not URL-safe base64", cause: err}
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &MalformedStateError{Reason: "token bytes are not JSON", cause: err}
	}
	return value, nil
}
