// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the HTTP serving side of a concierge
// service: a TCP server with graceful lifecycle ([HTTPServer]) and a
// protocol endpoint handler ([ProtocolHandler]) that classifies each
// POST, answers schema requests (with ETag-based cache validation),
// and dispatches unwrapped invocations to a business [Invoker].
//
// Services compose these utilities in their own main() function
// rather than subclassing a framework. The package provides building
// blocks, not a runtime.
package service
