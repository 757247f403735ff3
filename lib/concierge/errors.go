// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import (
	"errors"
	"fmt"
)

// InvalidRequestError reports a message that cannot serve the
// requested role: loading a schema request from a message that is not
// one, or parsing a response with no recognizable response marker.
type InvalidRequestError struct {
	// Reason describes what disqualified the message.
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// IsInvalidRequest reports whether any error in err's chain is an
// [InvalidRequestError].
func IsInvalidRequest(err error) bool {
	var requestError *InvalidRequestError
	return errors.As(err, &requestError)
}

// MalformedStateError reports a state token that fails to decode
// under the serialization contract in force: a non-string token where
// a serialized one was promised, bad base64, or bytes that are not
// JSON. It is the only way loading an invocation can fail.
type MalformedStateError struct {
	// Reason describes the decode failure.
	Reason string

	cause error
}

func (e *MalformedStateError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("malformed state token: %s: %v", e.Reason, e.cause)
	}
	return "malformed state token: " + e.Reason
}

// Unwrap exposes the underlying decode error, when there is one, to
// errors.Is and errors.As.
func (e *MalformedStateError) Unwrap() error {
	return e.cause
}

// IsMalformedState reports whether any error in err's chain is a
// [MalformedStateError].
func IsMalformedState(err error) bool {
	var stateError *MalformedStateError
	return errors.As(err, &stateError)
}
