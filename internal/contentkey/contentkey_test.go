package contentkey

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"captioncorpus/internal/interval"
)

func TestKeyMatchesDigestOfConcatenation(t *testing.T) {
	start := 83*time.Second + 250*time.Millisecond
	sum := sha256.Sum224([]byte("talk.en.vtt" + "HELLO THERE" + "00:01:23.250000"))
	want := hex.EncodeToString(sum[:])
	if got := Key("talk.en.vtt", "HELLO THERE", start); got != want {
		t.Fatalf("Key = %s, want %s", got, want)
	}
	if len(want) != Length || !Valid(want) {
		t.Fatalf("expected %d-char hex key, got %q", Length, want)
	}
}

func TestKeyDeterministic(t *testing.T) {
	item := interval.Interval{Start: time.Second, End: 2 * time.Second, Text: "HI", SourceID: "a", Index: 1}
	if KeyFor(item) != KeyFor(item) {
		t.Fatal("expected repeated calls to agree")
	}
	moved := item
	moved.End = 5 * time.Second
	moved.Index = 9
	if KeyFor(item) != KeyFor(moved) {
		t.Fatal("key must depend only on source, text and start")
	}
}

func TestKeyDistinguishesFields(t *testing.T) {
	base := interval.Interval{Start: time.Second, Text: "HI", SourceID: "a"}
	variants := []interval.Interval{
		{Start: time.Second, Text: "HI", SourceID: "b"},
		{Start: time.Second, Text: "HO", SourceID: "a"},
		{Start: time.Second + time.Microsecond, Text: "HI", SourceID: "a"},
	}
	seen := map[string]bool{KeyFor(base): true}
	for _, v := range variants {
		key := KeyFor(v)
		if seen[key] {
			t.Fatalf("collision for %v", v)
		}
		seen[key] = true
	}
}

func TestKeyStartSuffixFixedWidth(t *testing.T) {
	texts := []string{"HI", "HI 0", "HI 00", "HI 00:00:01"}
	starts := []time.Duration{0, time.Second, 10 * time.Second, 99*time.Hour + 59*time.Minute}
	seen := map[string]string{}
	for _, text := range texts {
		for _, start := range starts {
			key := Key("talk.en.vtt", text, start)
			label := text + "@" + start.String()
			if prev, ok := seen[key]; ok {
				t.Fatalf("key for %s collides with %s", label, prev)
			}
			seen[key] = label
		}
	}
}

func TestShard(t *testing.T) {
	if got := Shard("abcdef"); got != "ab" {
		t.Fatalf("Shard = %q, want ab", got)
	}
	if got := Shard("a"); got != "a" {
		t.Fatalf("Shard(short) = %q", got)
	}
	if Valid("xyz") {
		t.Fatal("expected short key to be invalid")
	}
}
