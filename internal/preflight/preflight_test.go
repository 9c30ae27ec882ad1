package preflight

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captioncorpus/internal/config"
	"captioncorpus/internal/corpus"
	"captioncorpus/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckManifest_Missing(t *testing.T) {
	result := CheckManifest(context.Background(), filepath.Join(t.TempDir(), "manifest.db"))
	if !result.Passed {
		t.Fatalf("expected pass for missing manifest, got: %s", result.Detail)
	}
}

func TestCheckManifest_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	m, err := corpus.OpenManifest(path)
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	_ = m.Close()

	result := CheckManifest(context.Background(), path)
	if !result.Passed {
		t.Fatalf("expected pass for valid manifest, got: %s", result.Detail)
	}
}

func TestCheckManifest_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	m, err := corpus.OpenManifest(path)
	if err != nil {
		t.Fatalf("OpenManifest: %v", err)
	}
	_ = m.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	_ = db.Close()

	result := CheckManifest(context.Background(), path)
	if result.Passed {
		t.Fatal("expected failure for mismatched schema")
	}
	if !strings.Contains(result.Detail, "schema mismatch") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func stubBinaries(t *testing.T, names ...string) {
	t.Helper()
	binDir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}
	t.Setenv("PATH", binDir)
}

func minimalConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Paths.CorpusDir = t.TempDir()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func TestRunAll_MinimalConfig(t *testing.T) {
	stubBinaries(t, "ffmpeg")
	cfg := minimalConfig(t)
	cfg.Validation.Enabled = false

	results := RunAll(context.Background(), cfg)
	// corpus dir, work dir, ffmpeg, manifest
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if err := Require(context.Background(), cfg); err != nil {
		t.Fatalf("Require: %v", err)
	}
}

func TestRunAll_ValidationNeedsUVX(t *testing.T) {
	stubBinaries(t, "ffmpeg")
	cfg := minimalConfig(t)
	cfg.Validation.Enabled = true

	results := RunAll(context.Background(), cfg)
	found := false
	for _, r := range results {
		if r.Name == "uvx" {
			found = true
			if r.Passed {
				t.Error("expected uvx check to fail without the binary")
			}
		}
	}
	if !found {
		t.Fatal("expected uvx check in results")
	}

	err := Require(context.Background(), cfg)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
