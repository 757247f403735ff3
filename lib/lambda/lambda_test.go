// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/bureau-foundation/concierge/lib/concierge"
)

var ticketSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
	},
}

// resultMap unwraps a wrapped handler's result as a response payload.
func resultMap(t *testing.T, result any, err error) map[string]any {
	t.Helper()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	payload, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result is %T, want map[string]any", result)
	}
	return payload
}

func TestWrap_SchemaRequest(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		t.Fatal("business handler ran on a schema request")
		return nil, nil
	}, ticketSchema, WithInstructions("fill in the ticket"))

	payload := resultMap(t, handler(context.Background(), map[string]any{
		concierge.FieldSchema: "request",
		concierge.FieldClient: "agent-1",
	}))

	if payload[concierge.FieldResponse] != string(concierge.KindSchema) {
		t.Errorf("response kind = %v, want schema", payload[concierge.FieldResponse])
	}
	if payload[concierge.FieldInstructions] != "fill in the ticket" {
		t.Errorf("instructions = %v", payload[concierge.FieldInstructions])
	}
	schema, ok := payload[concierge.FieldSchema].(map[string]any)
	if !ok || schema["type"] != "object" {
		t.Errorf("schema = %v", payload[concierge.FieldSchema])
	}
}

func TestWrap_InvocationStripped(t *testing.T) {
	var seen map[string]any
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		seen = event
		return map[string]any{"id": 7}, nil
	}, ticketSchema)

	result, err := handler(context.Background(), map[string]any{
		"title":               "broken build",
		concierge.FieldClient: "agent-1",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	if seen["title"] != "broken build" {
		t.Errorf("handler saw %v", seen)
	}
	if _, ok := seen[concierge.FieldClient]; ok {
		t.Error("reserved client field leaked into the business payload")
	}
	if id := result.(map[string]any)["id"]; id != 7 {
		t.Errorf("result = %v", result)
	}
}

func TestWrap_BareEventReachesHandler(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		return event["title"], nil
	}, ticketSchema)

	result, err := handler(context.Background(), map[string]any{"title": "plain"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result != "plain" {
		t.Errorf("result = %v, want %q", result, "plain")
	}
}

func TestWrap_SchemaStateSerialized(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		return nil, nil
	}, ticketSchema,
		WithSerializedState(),
		WithState(func(ctx context.Context, event map[string]any) (any, error) {
			return map[string]any{"request_id": "r-1"}, nil
		}),
	)

	payload := resultMap(t, handler(context.Background(), map[string]any{
		concierge.FieldSchema: "request",
	}))

	token, ok := payload[concierge.FieldState].(string)
	if !ok {
		t.Fatalf("state = %T, want base64 string token", payload[concierge.FieldState])
	}
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("state token is not base64: %v", err)
	}
	if string(decoded) != `{"request_id":"r-1"}` {
		t.Errorf("decoded state = %s", decoded)
	}
}

func TestWrap_SchemaStateRaw(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		return nil, nil
	}, ticketSchema,
		WithState(func(ctx context.Context, event map[string]any) (any, error) {
			return map[string]any{"request_id": "r-1"}, nil
		}),
	)

	payload := resultMap(t, handler(context.Background(), map[string]any{
		concierge.FieldSchema: "request",
	}))

	state, ok := payload[concierge.FieldState].(map[string]any)
	if !ok || state["request_id"] != "r-1" {
		t.Errorf("state = %v, want raw map", payload[concierge.FieldState])
	}
}

func TestWrap_MalformedState(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		t.Fatal("business handler ran on a malformed invocation")
		return nil, nil
	}, ticketSchema, WithSerializedState())

	_, err := handler(context.Background(), map[string]any{
		"title":              "x",
		concierge.FieldState: "%%% not base64 %%%",
	})
	if !concierge.IsMalformedState(err) {
		t.Fatalf("err = %v, want malformed state", err)
	}
}

func TestWrap_MalformedStateAsErrorResponse(t *testing.T) {
	handler := Wrap(func(ctx context.Context, event map[string]any) (any, error) {
		t.Fatal("business handler ran on a malformed invocation")
		return nil, nil
	}, ticketSchema, WithSerializedState(), WithErrorResponses())

	payload := resultMap(t, handler(context.Background(), map[string]any{
		"title":              "x",
		concierge.FieldState: "%%% not base64 %%%",
	}))

	if payload[concierge.FieldResponse] != string(concierge.KindError) {
		t.Errorf("response kind = %v, want error", payload[concierge.FieldResponse])
	}
	if payload[concierge.FieldError] == "" {
		t.Error("error response carries no message")
	}
	if _, ok := payload[concierge.FieldSchema]; !ok {
		t.Error("error response does not carry the schema for correction")
	}
}

func TestWrap_HandlerError(t *testing.T) {
	boom := errors.New("ticket store unavailable")
	business := func(ctx context.Context, event map[string]any) (any, error) {
		return nil, boom
	}

	_, err := Wrap(business, ticketSchema)(context.Background(), map[string]any{"title": "x"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the handler's error", err)
	}

	payload := resultMap(t, Wrap(business, ticketSchema, WithErrorResponses())(
		context.Background(), map[string]any{"title": "x"}))
	if payload[concierge.FieldResponse] != string(concierge.KindError) {
		t.Errorf("response kind = %v, want error", payload[concierge.FieldResponse])
	}
	if payload[concierge.FieldError] != "ticket store unavailable" {
		t.Errorf("error message = %v", payload[concierge.FieldError])
	}
}
