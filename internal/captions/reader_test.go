package captions

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"captioncorpus/internal/services"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

NOTE generated by hand

00:00:01.000 --> 00:00:03.500 align:start position:0%
Hello there,
my friend

00:00:04.000 --> 00:00:04.000
zero length

intro
00:00:05.250 --> 00:00:07.000
<c.colorE5E5E5>second</c> cue

01:02.500 --> 01:04.000
short form
`

const sampleSRT = "1\r\n00:00:01,000 --> 00:00:02,000\r\nFirst line\r\n\r\n2\r\n00:00:03,500 --> 00:00:05,000\r\nSecond\r\nline\r\n"

func TestParseVTT(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleVTT), FormatVTT, "talk.en.vtt")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if track.Len() != 3 {
		t.Fatalf("expected 3 cues, got %d: %v", track.Len(), track.Intervals)
	}
	first := track.Intervals[0]
	if first.Text != "Hello there, my friend" || first.Start != time.Second || first.End != 3500*time.Millisecond {
		t.Fatalf("unexpected first cue %v", first)
	}
	if track.Intervals[1].Text != "<c.colorE5E5E5>second</c> cue" {
		t.Fatalf("unexpected second cue %q", track.Intervals[1].Text)
	}
	last := track.Intervals[2]
	if last.Start != time.Minute+2500*time.Millisecond {
		t.Fatalf("unexpected short-form start %s", last.Start)
	}
	for i, item := range track.Intervals {
		if item.Index != i || item.SourceID != "talk.en.vtt" {
			t.Fatalf("cue %d has index %d source %q", i, item.Index, item.SourceID)
		}
	}
	if err := track.Validate(); err != nil {
		t.Fatalf("parsed track fails validation: %v", err)
	}
}

func TestParseSRT(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleSRT), FormatSRT, "movie.srt")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if track.Len() != 2 {
		t.Fatalf("expected 2 cues, got %d", track.Len())
	}
	if track.Intervals[1].Text != "Second line" || track.Intervals[1].Start != 3500*time.Millisecond {
		t.Fatalf("unexpected second cue %v", track.Intervals[1])
	}
}

func TestParseRejectsBadTimestamp(t *testing.T) {
	_, err := Parse(strings.NewReader("1\n00:00:xx,000 --> 00:00:02,000\nbad\n"), FormatSRT, "bad.srt")
	if err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:01.000", time.Second},
		{"00:00:01,5", 1500 * time.Millisecond},
		{"1:00:00.000", time.Hour},
		{"00:10.250", 10250 * time.Millisecond},
		{"00:00:00.123456", 123456 * time.Microsecond},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("parseTimestamp(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "1.000", "00:61:00.000", "aa:bb:cc"} {
		if _, err := parseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestReadFileDetectsFormatAndSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.en.vtt")
	if err := os.WriteFile(path, []byte("\ufeff"+sampleVTT), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	track, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if track.SourceID != "lecture.en.vtt" || track.Len() != 3 {
		t.Fatalf("unexpected track %+v", track)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.vtt"), ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindForMedia(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.m4a")
	if _, err := FindForMedia(media, "en"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	srt := filepath.Join(dir, "talk.srt")
	vtt := filepath.Join(dir, "talk.en.vtt")
	deVTT := filepath.Join(dir, "talk.de.vtt")
	for _, p := range []string{srt, vtt, deVTT} {
		if err := os.WriteFile(p, []byte(sampleSRT), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	tests := []struct {
		lang string
		want string
	}{
		{"en", vtt},
		{"English", vtt},
		{"deu", deVTT},
		{"fr", srt},
		{"", srt},
	}
	for _, tt := range tests {
		got, err := FindForMedia(media, tt.lang)
		if err != nil || got != tt.want {
			t.Fatalf("FindForMedia(%q) = %q, %v; want %q", tt.lang, got, err, tt.want)
		}
	}
}
