package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Clip format written by WriteWAV: 16 kHz mono 16-bit PCM.
const (
	WAVSampleRate = 16000
	wavHeaderSize = 44
)

// WriteWAV writes a silent PCM WAV file of exactly size bytes, header
// included. Sizes below the header length are raised to it.
func WriteWAV(t testing.TB, path string, size int64) {
	t.Helper()

	size = max(size, wavHeaderSize)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	header := make([]byte, 0, wavHeaderSize)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(size-8))
	header = append(header, "WAVEfmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, 1) // PCM
	header = binary.LittleEndian.AppendUint16(header, 1) // mono
	header = binary.LittleEndian.AppendUint32(header, WAVSampleRate)
	header = binary.LittleEndian.AppendUint32(header, WAVSampleRate*2)
	header = binary.LittleEndian.AppendUint16(header, 2)
	header = binary.LittleEndian.AppendUint16(header, 16)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(size-wavHeaderSize))
	if _, err := f.Write(header); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	const chunkSize = 32 * 1024
	silence := make([]byte, chunkSize)
	remaining := size - wavHeaderSize
	for remaining > 0 {
		n := min(remaining, chunkSize)
		if _, err := f.Write(silence[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= n
	}
}
