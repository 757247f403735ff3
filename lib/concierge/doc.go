// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package concierge implements the API Concierge protocol: a
// convention layered on JSON request/response APIs that lets a
// service describe the parameters it expects as a JSON Schema, so
// that a generic client can collect values (from a person, an agent,
// or another program) and replay them as an ordinary invocation.
//
// The protocol reserves a key namespace, [FieldPrefix], inside
// otherwise ordinary messages. A client asks for the schema by
// sending the [FieldSchema] key set to [SchemaRequestSentinel]. The
// service answers with a [SchemaResponse]: the schema document,
// optional human instructions, and an opaque state token the client
// must return unchanged with its follow-up invocation. Any message
// that is not a schema request is an invocation; plain messages from
// clients that have never heard of this protocol load as bare
// invocations with no client name and no state.
//
// Messages travel in one of two transports. Body transport places the
// reserved keys inside the JSON document itself; header transport
// places them in HTTP-style string headers, leaving the body purely
// business payload. [SchemaResponse.Payload] and
// [SchemaResponse.Headers] render the same logical response either
// way, and [LoadInvocationRequest] accepts either on the way back in.
//
// State tokens are opaque to clients by convention: a service encodes
// whatever bookkeeping it needs with [EncodeState] and gets it back
// verbatim. Whether the token is a serialized string or a raw JSON
// value is a contract between the service's response and the
// following invocation, never detected from the data.
//
// A response may also ship a document template: a base document plus
// a JSON Pointer naming where the collected value belongs. Rendering
// merges the value (or a placeholder derived from the schema) into
// the base via [github.com/bureau-foundation/concierge/lib/jsonptr],
// so the client sees the final document shape rather than assembly
// instructions.
package concierge
