package logging

import (
	"context"
	"testing"
)

func TestEnsureRunIDIsStable(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if id == "" {
		t.Fatalf("expected a non-empty run_id")
	}
	_, again := EnsureRunID(ctx)
	if again != id {
		t.Fatalf("EnsureRunID generated a new ID %q, want existing %q", again, id)
	}
}

func TestRunIDFromContextMissing(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Fatalf("RunIDFromContext = %q, want empty", got)
	}
}

func TestWithRunLoggerNilBase(t *testing.T) {
	ctx, log := WithRunLogger(context.Background(), nil)
	if log == nil {
		t.Fatalf("expected a usable logger")
	}
	if RunIDFromContext(ctx) == "" {
		t.Fatalf("expected run_id on the returned context")
	}
	// Must not panic.
	log.Info(ctx, "noop")
}

func TestParseLevelDefaults(t *testing.T) {
	if got := parseLevel("nonsense"); got == nil {
		t.Fatalf("parseLevel must always return a level")
	}
}
