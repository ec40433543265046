package net

import (
	"context"
	"testing"

	"visitsdash/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestWithRequest_SetsBothKeys(t *testing.T) {
	ctx := WithRequest(context.Background(), "rid-1")
	if got := chimw.GetReqID(ctx); got != "rid-1" {
		t.Fatalf("chi req id = %q", got)
	}
	if got := logger.RequestID(ctx); got != "rid-1" {
		t.Fatalf("logger req id = %q", got)
	}
	if got := RequestID(ctx); got != "rid-1" {
		t.Fatalf("RequestID = %q", got)
	}
}

func TestWithRequest_EmptyIsNoop(t *testing.T) {
	base := context.Background()
	if WithRequest(base, "") != base {
		t.Fatal("empty id should return ctx unchanged")
	}
	if RequestID(base) != "" {
		t.Fatal("expected empty id")
	}
}

func TestRequestID_FallsBackToLogger(t *testing.T) {
	ctx := logger.WithRequest(context.Background(), "from-logger")
	if got := RequestID(ctx); got != "from-logger" {
		t.Fatalf("RequestID = %q", got)
	}
}
