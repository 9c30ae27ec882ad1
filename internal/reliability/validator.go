package reliability

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"captioncorpus/internal/config"
	"captioncorpus/internal/interval"
	"captioncorpus/internal/logging"
	"captioncorpus/internal/services"
)

// Default sampling parameters.
const (
	DefaultSampleSize  = 3
	DefaultThreshold   = 0.3
	DefaultCallTimeout = 5 * time.Minute
)

// Oracle transcribes the audio behind one interval.
type Oracle interface {
	Transcribe(ctx context.Context, item interval.Interval) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, item interval.Interval) (string, error)

// Transcribe calls f.
func (f OracleFunc) Transcribe(ctx context.Context, item interval.Interval) (string, error) {
	return f(ctx, item)
}

// Verdict is the outcome of a reliability check.
type Verdict string

const (
	VerdictAccept  Verdict = "accept"
	VerdictReject  Verdict = "reject"
	VerdictSkipped Verdict = "skipped"
)

// SampleRecord is one oracle call and its outcome. It lives only as long as
// the Report that carries it.
type SampleRecord struct {
	Interval     interval.Interval
	Transcript   string
	Similarity   float64
	EditDistance int
	Err          error
}

// OK reports whether the oracle call succeeded.
func (r SampleRecord) OK() bool {
	return r.Err == nil
}

// Report summarises one validation run.
type Report struct {
	Verdict        Verdict
	Reason         string
	Samples        []SampleRecord
	Succeeded      int
	Failed         int
	MeanSimilarity float64
	Threshold      float64
}

// Accepted reports whether the batch passed.
func (r Report) Accepted() bool {
	return r.Verdict == VerdictAccept
}

// SampleConfig holds the sampling parameters.
type SampleConfig struct {
	SampleSize  int
	Threshold   float64
	CallTimeout time.Duration
	// Seed pins sample selection when non-zero. Each Validate call builds its
	// own generator from it.
	Seed uint64
}

// DefaultSampleConfig returns the stock sampling parameters.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		SampleSize:  DefaultSampleSize,
		Threshold:   DefaultThreshold,
		CallTimeout: DefaultCallTimeout,
	}
}

// SampleConfigFromConfig reads the [validation] section.
func SampleConfigFromConfig(cfg *config.Config) SampleConfig {
	if cfg == nil {
		return DefaultSampleConfig()
	}
	return SampleConfig{
		SampleSize:  cfg.Validation.SampleSize,
		Threshold:   cfg.Validation.Threshold,
		CallTimeout: cfg.CallTimeout(),
		Seed:        cfg.Validation.Seed,
	}
}

// Validator samples intervals and scores them against an oracle.
type Validator struct {
	Oracle Oracle
	Config SampleConfig
	// Rand overrides sample selection. When nil a generator is created per
	// call, seeded from Config.Seed or the clock.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Validate runs one reliability check over intervals with a fresh Validator.
func Validate(ctx context.Context, oracle Oracle, intervals []interval.Interval, sc SampleConfig) (Report, error) {
	v := &Validator{Oracle: oracle, Config: sc}
	return v.Validate(ctx, intervals)
}

// Validate draws the sample, calls the oracle once per sampled interval and
// returns the verdict. Oracle failures are recorded in the report, not
// returned. The error is non-nil only when ctx ends before a verdict is
// reached or the validator is misconfigured.
func (v *Validator) Validate(ctx context.Context, intervals []interval.Interval) (Report, error) {
	report := Report{Threshold: v.Config.Threshold}
	if v.Oracle == nil {
		return report, services.Wrap(services.ErrConfiguration, "reliability", "validate", "oracle not configured", nil)
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(v.Logger, "reliability"))

	if len(intervals) == 0 {
		report.Verdict = VerdictReject
		report.Reason = "empty_batch"
		v.logDecision(logger, report)
		return report, nil
	}

	sample := v.draw(intervals)
	report.Samples = make([]SampleRecord, 0, len(sample))
	for _, item := range sample {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("reliability check: %w", err)
		}
		record := v.call(ctx, item)
		if record.OK() {
			report.Succeeded++
			logger.Debug("oracle sample scored",
				logging.Int("interval", item.Index),
				logging.Float64("similarity", record.Similarity),
				logging.Int("edit_distance", record.EditDistance),
			)
		} else {
			report.Failed++
			logger.Warn("oracle sample failed",
				logging.Int("interval", item.Index),
				logging.String(logging.FieldEventType, "oracle_call_failed"),
				logging.Error(record.Err),
			)
		}
		report.Samples = append(report.Samples, record)
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("reliability check: %w", err)
	}

	decide(&report)
	v.logDecision(logger, report)
	return report, nil
}

func decide(report *Report) {
	if report.Succeeded == 0 {
		report.Verdict = VerdictReject
		report.Reason = "all_oracle_calls_failed"
		return
	}
	scores := make([]float64, 0, report.Succeeded)
	for _, record := range report.Samples {
		if record.OK() {
			scores = append(scores, record.Similarity)
		}
	}
	report.MeanSimilarity = stat.Mean(scores, nil)
	if report.MeanSimilarity > report.Threshold {
		report.Verdict = VerdictAccept
		report.Reason = "mean_similarity_above_threshold"
		return
	}
	report.Verdict = VerdictReject
	report.Reason = "mean_similarity_below_threshold"
}

func (v *Validator) call(ctx context.Context, item interval.Interval) SampleRecord {
	record := SampleRecord{Interval: item}
	callCtx := ctx
	if v.Config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.Config.CallTimeout)
		defer cancel()
	}
	transcript, err := v.Oracle.Transcribe(callCtx, item)
	if err != nil {
		record.Err = services.Wrap(services.ErrOracle, "reliability", "transcribe",
			fmt.Sprintf("interval %d", item.Index), err)
		return record
	}
	record.Transcript = transcript
	record.Similarity = Similarity(item.Text, transcript)
	record.EditDistance = EditDistance(item.Text, transcript)
	return record
}

// draw picks min(SampleSize, len(intervals)) intervals uniformly without
// replacement. The sample keeps track order.
func (v *Validator) draw(intervals []interval.Interval) []interval.Interval {
	k := v.Config.SampleSize
	if k <= 0 {
		k = DefaultSampleSize
	}
	if k >= len(intervals) {
		return interval.Clone(intervals)
	}
	rng := v.rng()
	picks := make([]int, len(intervals))
	for i := range picks {
		picks[i] = i
	}
	for i := range k {
		j := i + rng.IntN(len(picks)-i)
		picks[i], picks[j] = picks[j], picks[i]
	}
	chosen := picks[:k]
	slices.Sort(chosen)
	sample := make([]interval.Interval, 0, k)
	for _, idx := range chosen {
		sample = append(sample, intervals[idx])
	}
	return sample
}

func (v *Validator) rng() *rand.Rand {
	if v.Rand != nil {
		return v.Rand
	}
	if v.Config.Seed != 0 {
		return rand.New(rand.NewPCG(v.Config.Seed, v.Config.Seed))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1))
}

func (v *Validator) logDecision(logger *slog.Logger, report Report) {
	attrs := logging.DecisionAttrs("reliability_check", string(report.Verdict), report.Reason)
	attrs = append(attrs,
		logging.Int("sampled", len(report.Samples)),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Float64("mean_similarity", report.MeanSimilarity),
		logging.Float64("threshold", report.Threshold),
	)
	logger.Info("reliability verdict", logging.Args(attrs...)...)
}
