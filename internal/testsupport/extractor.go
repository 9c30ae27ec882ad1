package testsupport

import (
	"context"
	"sync"
	"testing"
	"time"
)

// ClipCall records one ExtractClip invocation.
type ClipCall struct {
	Source string
	Start  time.Duration
	End    time.Duration
	Dest   string
}

// Extractor is a fake audio extractor that writes a silent Size-byte WAV to each
// destination. A non-nil Err is returned instead.
type Extractor struct {
	T    testing.TB
	Size int64
	Err  error

	mu    sync.Mutex
	calls []ClipCall
}

// ExtractClip records the call and writes the fake clip.
func (e *Extractor) ExtractClip(_ context.Context, source string, start, end time.Duration, dest string) error {
	e.mu.Lock()
	e.calls = append(e.calls, ClipCall{Source: source, Start: start, End: end, Dest: dest})
	e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	WriteWAV(e.T, dest, e.Size)
	return nil
}

// Calls returns the recorded invocations.
func (e *Extractor) Calls() []ClipCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ClipCall(nil), e.calls...)
}
