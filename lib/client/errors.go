// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
)

// ServiceError is a protocol error response from a concierge service.
// Callers can use errors.As to extract the structured information:
//
//	var serviceErr *client.ServiceError
//	if errors.As(err, &serviceErr) {
//	    repair(serviceErr.Schema)
//	}
type ServiceError struct {
	// Message is the service's human-readable error description.
	Message string
	// Schema is the replacement schema shipped with the error, if any.
	// Services attach their schema so callers can correct the payload.
	Schema any
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("concierge service error (%d): %s", e.StatusCode, e.Message)
}

// IsServiceError reports whether err is a *ServiceError.
func IsServiceError(err error) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr)
}
