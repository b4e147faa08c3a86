package ctxutil

import (
	"context"
	"testing"
)

func TestWithRunID_And_RunIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), "run-1")
	if got := RunIDFromCtx(ctx); got != "run-1" {
		t.Fatalf("expected run-1, got %q", got)
	}
}

func TestRunIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RunIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestNewRunID(t *testing.T) {
	t.Parallel()

	ctx, id := NewRunID(context.Background())
	if id == "" {
		t.Fatal("expected non-empty run id")
	}
	if got := RunIDFromCtx(ctx); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}

	_, other := NewRunID(context.Background())
	if other == id {
		t.Fatal("expected distinct run ids")
	}
}

func TestSourceFromCtx(t *testing.T) {
	t.Parallel()

	if _, ok := SourceFromCtx(context.Background()); ok {
		t.Fatal("expected ok=false for empty context")
	}
	if _, ok := SourceFromCtx(WithSource(context.Background(), "")); ok {
		t.Fatal("expected ok=false for empty source")
	}

	got, ok := SourceFromCtx(WithSource(context.Background(), "words.json"))
	if !ok || got != "words.json" {
		t.Fatalf("expected words.json, got %q (ok=%v)", got, ok)
	}
}

func TestRunID_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), runIDKey, 42)
	if got := RunIDFromCtx(ctx); got != "" {
		t.Fatalf("expected empty string for wrong type, got %q", got)
	}
}
