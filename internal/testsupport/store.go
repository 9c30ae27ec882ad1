package testsupport

import (
	"testing"

	"captioncorpus/internal/config"
	"captioncorpus/internal/corpus"
)

// MustOpenManifest opens the corpus manifest for tests and registers cleanup.
func MustOpenManifest(t testing.TB, cfg *config.Config) *corpus.Manifest {
	t.Helper()

	manifest, err := corpus.OpenManifest(cfg.ManifestPath())
	if err != nil {
		t.Fatalf("corpus.OpenManifest: %v", err)
	}
	t.Cleanup(func() {
		manifest.Close()
	})
	return manifest
}
