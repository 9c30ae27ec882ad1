package captions

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"captioncorpus/internal/interval"
	"captioncorpus/internal/language"
	"captioncorpus/internal/services"
)

// Format identifies a caption file syntax.
type Format string

const (
	FormatVTT Format = "vtt"
	FormatSRT Format = "srt"
)

// FindForMedia returns the caption file that sits beside mediaPath. With a
// language, <base>.<lang>.vtt and <base>.<lang>.srt are preferred over the
// unsuffixed names; VTT is preferred over SRT.
func FindForMedia(mediaPath, lang string) (string, error) {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	for _, suffix := range candidateSuffixes(lang) {
		candidate := base + suffix
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "captions", "find", fmt.Sprintf("no caption file beside %s", mediaPath), nil)
}

func candidateSuffixes(lang string) []string {
	code := language.ToISO2(lang)
	if code == "" {
		return []string{".vtt", ".srt"}
	}
	return []string{"." + code + ".vtt", ".vtt", "." + code + ".srt", ".srt"}
}

// SourceIDFor derives the default source identifier from a caption path.
func SourceIDFor(path string) string {
	return filepath.Base(path)
}

// ReadFile parses the caption file at path. An empty sourceID defaults to
// SourceIDFor(path).
func ReadFile(path, sourceID string) (interval.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return interval.Track{}, services.Wrap(services.ErrNotFound, "captions", "read", path, err)
		}
		return interval.Track{}, fmt.Errorf("read captions: %w", err)
	}
	if sourceID == "" {
		sourceID = SourceIDFor(path)
	}
	format := DetectFormat(path, data)
	return Parse(bytes.NewReader(data), format, sourceID)
}

// DetectFormat picks the syntax from the header, falling back to the file
// extension.
func DetectFormat(path string, data []byte) Format {
	trimmed := bytes.TrimPrefix(data, []byte("\ufeff"))
	if bytes.HasPrefix(bytes.TrimSpace(trimmed), []byte("WEBVTT")) {
		return FormatVTT
	}
	if strings.EqualFold(filepath.Ext(path), ".vtt") {
		return FormatVTT
	}
	return FormatSRT
}

// Parse reads cues from r. Cue text lines are joined with single spaces.
// Cues with no text or a non-positive duration are skipped, and surviving
// cues are indexed from zero in file order.
func Parse(r io.Reader, format Format, sourceID string) (interval.Track, error) {
	track := interval.Track{SourceID: sourceID}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var block []string
	flush := func() error {
		defer func() { block = block[:0] }()
		item, ok, err := parseBlock(block, format)
		if err != nil || !ok {
			return err
		}
		item.SourceID = sourceID
		item.Index = len(track.Intervals)
		track.Intervals = append(track.Intervals, item)
		return nil
	}

	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return interval.Track{}, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return interval.Track{}, fmt.Errorf("scan captions: %w", err)
	}
	if err := flush(); err != nil {
		return interval.Track{}, err
	}
	return track, nil
}

// parseBlock turns one blank-line separated block into an interval. Header,
// NOTE, STYLE and REGION blocks report ok=false.
func parseBlock(lines []string, format Format) (interval.Interval, bool, error) {
	if len(lines) == 0 {
		return interval.Interval{}, false, nil
	}
	if format == FormatVTT {
		head := strings.TrimSpace(lines[0])
		for _, prefix := range []string{"WEBVTT", "NOTE", "STYLE", "REGION"} {
			if strings.HasPrefix(head, prefix) {
				return interval.Interval{}, false, nil
			}
		}
	}

	timing := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timing = i
			break
		}
	}
	if timing < 0 {
		return interval.Interval{}, false, nil
	}

	start, end, err := parseTimingLine(lines[timing])
	if err != nil {
		return interval.Interval{}, false, err
	}

	parts := make([]string, 0, len(lines)-timing-1)
	for _, line := range lines[timing+1:] {
		if text := strings.TrimSpace(line); text != "" {
			parts = append(parts, text)
		}
	}
	text := strings.Join(parts, " ")
	if text == "" || end <= start {
		return interval.Interval{}, false, nil
	}
	return interval.Interval{Start: start, End: end, Text: text}, true, nil
}

func parseTimingLine(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// WebVTT cue settings follow the end timestamp.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := parseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm and the SRT comma form.
func parseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ",", ".")
	clock, fraction, _ := strings.Cut(value, ".")
	hms := strings.Split(clock, ":")
	if len(hms) == 2 {
		hms = append([]string{"0"}, hms...)
	}
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	if errH != nil || errM != nil || errS != nil || minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var frac time.Duration
	if fraction != "" {
		if len(fraction) > 9 {
			fraction = fraction[:9]
		}
		nanos, err := strconv.Atoi(fraction + strings.Repeat("0", 9-len(fraction)))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		frac = time.Duration(nanos)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second + frac, nil
}
