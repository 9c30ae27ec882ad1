package preflight

import (
	"context"
	"fmt"
	"strings"

	"captioncorpus/internal/config"
	"captioncorpus/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Corpus directory", cfg.Paths.CorpusDir))
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}

	results = append(results, CheckManifest(ctx, cfg.ManifestPath()))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Require runs every check and returns a configuration error naming the
// failures, or nil when all checks pass.
func Require(ctx context.Context, cfg *config.Config) error {
	failed := Failed(RunAll(ctx, cfg))
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(parts, "; "), nil)
}
