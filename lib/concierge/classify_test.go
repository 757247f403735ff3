// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package concierge

import "testing"

func TestIsSchemaRequest(t *testing.T) {
	cases := []struct {
		name    string
		body    map[string]any
		headers map[string]string
		want    bool
	}{
		{
			name: "sentinel in body",
			body: map[string]any{"x-api-concierge-schema": "request"},
			want: true,
		},
		{
			name:    "sentinel in headers",
			headers: map[string]string{"x-api-concierge-schema": "request"},
			want:    true,
		},
		{
			name: "case-insensitive key and sentinel",
			body: map[string]any{"X-Api-Concierge-Schema": "Request"},
			want: true,
		},
		{
			name:    "header sentinel beside business body",
			body:    map[string]any{"action": "restart"},
			headers: map[string]string{"X-API-Concierge-Schema": "request"},
			want:    true,
		},
		{
			name: "plain business message",
			body: map[string]any{"action": "restart"},
			want: false,
		},
		{
			name: "schema field with wrong value",
			body: map[string]any{"x-api-concierge-schema": "yes please"},
			want: false,
		},
		{
			name: "schema field with non-string value",
			body: map[string]any{"x-api-concierge-schema": true},
			want: false,
		},
		{
			name: "other reserved keys do not mark a schema request",
			body: map[string]any{"x-api-concierge-client": "cli", "x-api-concierge-state": "abc"},
			want: false,
		},
		{
			name: "empty message",
			body: map[string]any{},
			want: false,
		},
		{
			name: "nil body and headers",
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSchemaRequest(tc.body, tc.headers); got != tc.want {
				t.Fatalf("IsSchemaRequest = %v, want %v", got, tc.want)
			}
			// The two classifications are disjoint and total: every
			// message is exactly one of the two.
			if got := IsInvocationRequest(tc.body, tc.headers); got == tc.want {
				t.Fatalf("IsInvocationRequest = %v, want %v", got, !tc.want)
			}
		})
	}
}
