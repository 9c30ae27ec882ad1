package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"captioncorpus/internal/corpus"
	"captioncorpus/internal/services/whisperx"
	"captioncorpus/internal/testsupport"
)

func TestProcessExportsAcceptedIntervals(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := env.run(t, "process", env.mediaPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Source:     talk.en.vtt")
	requireContains(t, out, "Candidates: 3")
	requireContains(t, out, "Accepted:   2")
	requireContains(t, out, "Verdict:    skipped")
	requireContains(t, out, "Written:    2 (skipped 0 existing, 0 empty)")
	if env.runner.count(whisperx.UVXCommand) != 0 {
		t.Fatal("expected no transcription calls with validation disabled")
	}

	wavs, err := filepath.Glob(filepath.Join(env.cfg.Paths.CorpusDir, "wav", "*", "*.wav"))
	if err != nil || len(wavs) != 2 {
		t.Fatalf("expected 2 wav records, got %v (%v)", wavs, err)
	}

	out, _, err = env.run(t, "process", env.mediaPath)
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	requireContains(t, out, "Written:    0 (skipped 2 existing, 0 empty)")

	manifest := testsupport.MustOpenManifest(t, env.cfg)
	totals, err := manifest.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Records != 2 || totals.Runs != 2 || totals.ByResult["ok"] != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestProcessValidationAccepts(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := env.run(t, "process", env.mediaPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Verdict:    accept")
	requireContains(t, out, "Written:    2")
	if got := env.runner.count(whisperx.UVXCommand); got != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", got)
	}

	runs := recentRuns(t, env)
	if len(runs) != 1 || runs[0].Verdict != "accept" || runs[0].MeanSimilarity != 1 {
		t.Fatalf("unexpected run %+v", runs)
	}
}

func TestProcessValidationFailsClosed(t *testing.T) {
	env := setupCLITestEnv(t, true)
	env.runner.failTranscribe = true

	out, _, err := env.run(t, "process", env.mediaPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Accepted:   0")
	requireContains(t, out, "Verdict:    reject")
	requireContains(t, out, "Reason:     reliability: all_oracle_calls_failed")

	if wavs, _ := filepath.Glob(filepath.Join(env.cfg.Paths.CorpusDir, "wav", "*", "*.wav")); len(wavs) != 0 {
		t.Fatalf("expected no records after rejection, got %v", wavs)
	}
	runs := recentRuns(t, env)
	if len(runs) != 1 || runs[0].Verdict != "reject" || runs[0].Result != "ok" {
		t.Fatalf("unexpected run %+v", runs)
	}
}

func TestProcessNoValidateFlag(t *testing.T) {
	env := setupCLITestEnv(t, true)
	env.runner.failTranscribe = true

	out, _, err := env.run(t, "process", "--no-validate", env.mediaPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Verdict:    skipped")
	requireContains(t, out, "Written:    2")
}

func TestProcessExplicitCaptionsAndSourceID(t *testing.T) {
	env := setupCLITestEnv(t, false)
	captions := filepath.Join(t.TempDir(), "other.srt")
	srt := "1\n00:00:01,000 --> 00:00:04,000\nA completely different caption line here.\n"
	if err := os.WriteFile(captions, []byte(srt), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	out, _, err := env.run(t, "process", "--captions", captions, "--source-id", "episode-7", env.mediaPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Source:     episode-7")
	requireContains(t, out, "Accepted:   1")
}

func TestProcessMissingCaptions(t *testing.T) {
	env := setupCLITestEnv(t, false)
	bare := filepath.Join(t.TempDir(), "bare.m4a")
	testsupport.WriteWAV(t, bare, 16)

	_, _, err := env.run(t, "process", bare)
	if err == nil {
		t.Fatal("expected failure for media without captions")
	}
	requireContains(t, err.Error(), "1 of 1 sources failed")

	runs := recentRuns(t, env)
	if len(runs) != 1 || runs[0].Result != "missing_input" || runs[0].SourceID != "bare.m4a" {
		t.Fatalf("unexpected run %+v", runs)
	}
}

func TestProcessRejectsFlagsWithSeveralSources(t *testing.T) {
	env := setupCLITestEnv(t, false)
	_, _, err := env.run(t, "process", "--source-id", "x", env.mediaPath, env.mediaPath)
	if err == nil {
		t.Fatal("expected error when --source-id is combined with several media files")
	}
}

func recentRuns(t *testing.T, env *cliTestEnv) []corpus.Run {
	t.Helper()
	manifest := testsupport.MustOpenManifest(t, env.cfg)
	runs, err := manifest.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	return runs
}
