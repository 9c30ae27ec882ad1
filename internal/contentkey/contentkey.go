// Package contentkey derives the content-addressed identifier used to name
// exported corpus records.
package contentkey

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"captioncorpus/internal/interval"
)

// Length is the hex length of a key (SHA-224).
const Length = sha256.Size224 * 2

// Key hashes sourceID, text and the formatted start offset. The same triple
// always yields the same key, which makes re-exporting a source idempotent.
//
// The fields are joined without a separator so keys stay stable across
// exports. The start suffix is fixed width below 100 hours, so only the
// source/text boundary can shift; source ids are caption file names, which
// no caption text extends.
func Key(sourceID, text string, start time.Duration) string {
	sum := sha256.Sum224([]byte(sourceID + text + interval.FormatTimestamp(start)))
	return hex.EncodeToString(sum[:])
}

// KeyFor returns the key of an interval.
func KeyFor(item interval.Interval) string {
	return Key(item.SourceID, item.Text, item.Start)
}

// Shard returns the two-character directory prefix for key.
func Shard(key string) string {
	if len(key) < 2 {
		return key
	}
	return key[:2]
}

// Valid reports whether s has the shape of a key.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
