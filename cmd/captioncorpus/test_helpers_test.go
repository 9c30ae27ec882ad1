package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"captioncorpus/internal/config"
	"captioncorpus/internal/logging"
	"captioncorpus/internal/services/whisperx"
	"captioncorpus/internal/testsupport"
)

const sampleCaptions = `WEBVTT

00:00:01.000 --> 00:00:03.500
Hello there my good friend.

00:00:05.000 --> 00:00:08.000
This line is long enough to keep.

00:00:10.000 --> 00:00:11.000
♪ music ♪
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	mediaPath  string
	runner     *fakeRunner
}

func setupCLITestEnv(t *testing.T, validation bool) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	opts := []testsupport.ConfigOption{testsupport.WithStubbedBinaries()}
	if validation {
		opts = append(opts, testsupport.WithValidation(3))
	}
	cfg := testsupport.NewConfig(t, opts...)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "captioncorpus", "config.toml")
	writeTestConfig(t, configPath, cfg)

	mediaDir := filepath.Join(base, "media")
	mediaPath := filepath.Join(mediaDir, "talk.m4a")
	testsupport.WriteWAV(t, mediaPath, 1024)
	if err := os.WriteFile(filepath.Join(mediaDir, "talk.en.vtt"), []byte(sampleCaptions), 0o644); err != nil {
		t.Fatalf("write captions: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		mediaPath:  mediaPath,
		runner: &fakeRunner{t: t, transcripts: map[int]string{
			0: "hello there my good friend",
			1: "this line is long enough to keep",
		}},
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ncorpus_dir = %q\nlog_dir = %q\nwork_dir = %q\n\n[validation]\nenabled = %t\nsample_size = %d\nseed = %d\n",
		cfg.Paths.CorpusDir,
		cfg.Paths.LogDir,
		cfg.Paths.WorkDir,
		cfg.Validation.Enabled,
		cfg.Validation.SampleSize,
		cfg.Validation.Seed,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cc := newCommandContext()
	cc.logger = logging.NewNop()
	cc.commandRunner = env.runner.Run
	cmd := newRootCommandWithContext(cc)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

var clipIndexPattern = regexp.MustCompile(`clip-(\d+)\.wav$`)

// fakeRunner stands in for ffmpeg and uvx. ffmpeg writes a fixed-size clip to
// its destination; uvx writes the transcript registered for the clip index,
// or fails when failTranscribe is set.
type fakeRunner struct {
	t              *testing.T
	transcripts    map[int]string
	failTranscribe bool

	mu    sync.Mutex
	calls []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()

	switch name {
	case whisperx.UVXCommand:
		if r.failTranscribe {
			return errors.New("whisperx crashed")
		}
		source := args[slices.Index(args, "whisperx")+1]
		outDir := args[slices.Index(args, "--output_dir")+1]
		match := clipIndexPattern.FindStringSubmatch(source)
		if match == nil {
			return fmt.Errorf("unexpected clip name %q", source)
		}
		idx, _ := strconv.Atoi(match[1])
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		payload := fmt.Sprintf(`{"segments":[{"text":%q,"start":0,"end":1}]}`, r.transcripts[idx])
		return os.WriteFile(filepath.Join(outDir, base+".json"), []byte(payload), 0o644)
	default:
		testsupport.WriteWAV(r.t, args[len(args)-1], 8192)
		return nil
	}
}

func (r *fakeRunner) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if call == name {
			n++
		}
	}
	return n
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
