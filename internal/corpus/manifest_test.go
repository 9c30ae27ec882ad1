package corpus_test

import (
	"context"
	"testing"
	"time"

	"captioncorpus/internal/corpus"
	"captioncorpus/internal/testsupport"
)

func TestManifestRecordsAreIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	manifest := testsupport.MustOpenManifest(t, cfg)
	ctx := context.Background()

	rec := corpus.Record{
		Key:      "abc123",
		SourceID: "talk.en.vtt",
		Start:    time.Second,
		End:      3 * time.Second,
		Text:     "HELLO",
		WavBytes: 64000,
	}
	inserted, err := manifest.AddRecord(ctx, rec)
	if err != nil || !inserted {
		t.Fatalf("first AddRecord = %v, %v", inserted, err)
	}
	inserted, err = manifest.AddRecord(ctx, rec)
	if err != nil || inserted {
		t.Fatalf("second AddRecord = %v, %v; want ignored", inserted, err)
	}
	has, err := manifest.HasRecord(ctx, "abc123")
	if err != nil || !has {
		t.Fatalf("HasRecord = %v, %v", has, err)
	}

	totals, err := manifest.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Records != 1 || totals.Sources != 1 || totals.AudioBytes != 64000 || totals.AudioSeconds != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestManifestRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	manifest := testsupport.MustOpenManifest(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []corpus.Run{
		{ID: "r1", SourceID: "a.vtt", Candidates: 10, Accepted: 4, Exported: 4, Verdict: "accept", Result: "ok", StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{ID: "r2", SourceID: "b.vtt", Candidates: 8, Verdict: "reject", Result: "ok", Reason: "reliability: all_oracle_calls_failed", StartedAt: base, FinishedAt: base.Add(2 * time.Minute)},
		{ID: "r3", SourceID: "c.vtt", Result: "missing_input", StartedAt: base, FinishedAt: base.Add(3 * time.Minute)},
	}
	for _, run := range runs {
		if err := manifest.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun %s: %v", run.ID, err)
		}
	}
	if err := manifest.RecordRun(ctx, corpus.Run{ID: "", SourceID: "x"}); err == nil {
		t.Fatal("expected error for run without id")
	}

	recent, err := manifest.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "r3" || recent[1].ID != "r2" {
		t.Fatalf("unexpected recent runs %+v", recent)
	}
	if !recent[1].FinishedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("finished_at round trip = %s", recent[1].FinishedAt)
	}

	totals, err := manifest.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Runs != 3 || totals.ByResult["ok"] != 2 || totals.ByVerdict["reject"] != 1 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestManifestReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := corpus.OpenManifest(cfg.ManifestPath())
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	if _, err := first.AddRecord(context.Background(), corpus.Record{Key: "k", SourceID: "s", Text: "T"}); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenManifest(t, cfg)
	has, err := second.HasRecord(context.Background(), "k")
	if err != nil || !has {
		t.Fatalf("expected record to persist, got %v %v", has, err)
	}
}
