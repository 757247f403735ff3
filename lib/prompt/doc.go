// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt renders concierge schemas as interactive terminal
// forms and concierge instructions as styled terminal text.
//
// The centerpiece is [Form], a Bubble Tea model that walks an object
// schema's properties and collects one value per property: free text
// for strings, digit entry with validation for numbers and integers,
// a toggle for booleans, and cycling for enumerations. Required
// properties must be filled before the form submits; optional
// properties may be left blank. The collected values come back from
// [Form.Values] as a JSON-shaped map ready to send as an invocation
// payload.
//
// The form never touches the terminal directly. Construction, Update,
// and View are pure with respect to I/O, so the model is testable by
// feeding it key messages and inspecting the rendered frame, and it
// embeds cleanly into larger Bubble Tea programs.
//
// [RenderMarkdown] converts instruction text (markdown) to
// ANSI-styled terminal output: headings, emphasis, lists, block
// quotes, links, tables, and fenced code blocks with syntax
// highlighting.
package prompt
