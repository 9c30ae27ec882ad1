package filters

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"captioncorpus/internal/config"
	"captioncorpus/internal/interval"
	"captioncorpus/internal/services"
)

// Settings holds the thresholds of the reference chain.
type Settings struct {
	OverlapWidth   int
	Blacklist      []string
	AllowedPattern *regexp.Regexp
	MinWords       int
	MaxWords       int
	MergeMinGap    time.Duration
	MergeMaxLength time.Duration
	MinDuration    time.Duration
	MaxDuration    time.Duration
	// MinIntervals appends a gate requiring more than this many survivors
	// when positive.
	MinIntervals int
}

// DefaultSettings returns the settings built from config defaults.
func DefaultSettings() Settings {
	cfg := config.Default()
	settings, err := SettingsFromConfig(&cfg)
	if err != nil {
		panic(fmt.Sprintf("default pipeline settings: %v", err))
	}
	return settings
}

// SettingsFromConfig reads the [pipeline] section.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	p := cfg.Pipeline
	pattern, err := regexp.Compile(p.AllowedPattern)
	if err != nil {
		return Settings{}, services.Wrap(services.ErrConfiguration, "filters", "compile allowed pattern", "", err)
	}
	return Settings{
		OverlapWidth:   p.OverlapWidth,
		Blacklist:      append([]string(nil), p.Blacklist...),
		AllowedPattern: pattern,
		MinWords:       p.MinWords,
		MaxWords:       p.MaxWords,
		MergeMinGap:    interval.FromSeconds(p.MergeMinGapSeconds),
		MergeMaxLength: interval.FromSeconds(p.MergeMaxSeconds),
		MinDuration:    interval.FromSeconds(p.MinDurationSeconds),
		MaxDuration:    interval.FromSeconds(p.MaxDurationSeconds),
		MinIntervals:   p.MinIntervals,
	}, nil
}

// ReferenceChain builds the stock pipeline: validate order, remove overlaps,
// drop blacklisted symbols, normalize, require the allowed pattern, enforce
// word counts, reduce to alphanumerics, merge neighbours and bound durations.
func ReferenceChain(settings Settings, logger *slog.Logger) *Chain {
	stages := []Stage{
		Validate(),
		RemoveOverlaps(settings.OverlapWidth),
		DropBlacklistedSymbols(settings.Blacklist),
		NormalizeText(),
	}
	if settings.AllowedPattern != nil {
		stages = append(stages, RequirePattern(settings.AllowedPattern, logger))
	}
	stages = append(stages,
		WordCount(settings.MinWords, settings.MaxWords),
		AlphaNumericText(),
		MergeAdjacent(settings.MergeMinGap, settings.MergeMaxLength),
		DurationRange(settings.MinDuration, settings.MaxDuration),
	)
	if settings.MinIntervals > 0 {
		stages = append(stages, MinIntervals(settings.MinIntervals))
	}
	return NewChain(logger, stages...)
}

// ChainFromConfig builds the reference chain from configuration.
func ChainFromConfig(cfg *config.Config, logger *slog.Logger) (*Chain, error) {
	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return ReferenceChain(settings, logger), nil
}
