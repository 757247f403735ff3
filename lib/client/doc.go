// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is an HTTP client for concierge services.
//
// A [Client] speaks the concierge protocol over POST: [Client.FetchSchema]
// asks a service to describe itself, [Client.Invoke] submits a filled-in
// payload while replaying the opaque state token from the schema response.
// The transport (JSON body or reserved headers) is fixed at construction;
// replies are parsed from whichever transport the service answered in.
//
// Protocol error responses surface as [*ServiceError] carrying the
// service's message and any replacement schema, so callers can repair
// their payload and retry.
package client
