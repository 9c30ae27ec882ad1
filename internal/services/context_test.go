package services_test

import (
	"context"
	"testing"

	"captioncorpus/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSourceID(ctx, "talk.en.vtt")
	ctx = services.WithStage(ctx, "merge_adjacent")
	ctx = services.WithRunID(ctx, "run-123")

	if id, ok := services.SourceIDFromContext(ctx); !ok || id != "talk.en.vtt" {
		t.Fatalf("unexpected source id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "merge_adjacent" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithSourceID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.SourceIDFromContext(ctx); ok {
		t.Fatal("expected no source id value")
	}
}
