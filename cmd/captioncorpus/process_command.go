package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"captioncorpus/internal/captions"
	"captioncorpus/internal/config"
	"captioncorpus/internal/corpus"
	"captioncorpus/internal/filters"
	"captioncorpus/internal/language"
	"captioncorpus/internal/logging"
	"captioncorpus/internal/preflight"
	"captioncorpus/internal/reliability"
	"captioncorpus/internal/services"
	"captioncorpus/internal/services/whisperx"
)

type processOptions struct {
	captionsPath  string
	sourceID      string
	noValidate    bool
	skipPreflight bool
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process <media>...",
		Short: "Filter captions and export aligned records to the corpus",
		Long: `Process reads the captions next to each media file (or the file given with
--captions), runs the filter chain, optionally cross-checks a random sample
against WhisperX, and exports the accepted intervals as wav/txt/json records.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && (opts.captionsPath != "" || opts.sourceID != "") {
				return errors.New("--captions and --source-id require a single media file")
			}
			return runProcess(cmd, ctx, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.captionsPath, "captions", "", "Caption file (default: <media>.en.vtt, <media>.vtt, <media>.en.srt, <media>.srt)")
	cmd.Flags().StringVar(&opts.sourceID, "source-id", "", "Source identifier mixed into content keys (default: caption file name)")
	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "Skip the WhisperX reliability check even when enabled in config")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "Skip binary and directory checks")
	return cmd
}

func runProcess(cmd *cobra.Command, cc *commandContext, mediaPaths []string, opts processOptions) error {
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return err
	}
	if opts.noValidate {
		cfg.Validation.Enabled = false
	}
	if !opts.skipPreflight {
		if err := preflight.Require(runCtx, cfg); err != nil {
			return err
		}
	}

	manifest, err := corpus.OpenManifest(cfg.ManifestPath())
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer manifest.Close()

	p := &processor{
		cfg:      cfg,
		cc:       cc,
		logger:   logging.NewComponentLogger(logger, "process"),
		manifest: manifest,
		out:      cmd.OutOrStdout(),
	}
	if isTerminal(cmd.ErrOrStderr()) {
		p.progress = cmd.ErrOrStderr()
	}

	var failed int
	for _, media := range mediaPaths {
		err := p.processOne(runCtx, media, opts)
		if err == nil {
			continue
		}
		if services.IsFatal(err) || errors.Is(err, context.Canceled) {
			return err
		}
		failed++
		fmt.Fprintf(p.out, "%s: %v\n", media, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(mediaPaths))
	}
	return nil
}

type processor struct {
	cfg      *config.Config
	cc       *commandContext
	logger   *slog.Logger
	manifest *corpus.Manifest
	out      io.Writer
	progress io.Writer
}

func (p *processor) processOne(ctx context.Context, mediaArg string, opts processOptions) (err error) {
	run := corpus.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Verdict:   string(reliability.VerdictSkipped),
	}
	ctx = services.WithRunID(ctx, run.ID)
	ctx = services.WithStage(ctx, "process")

	defer func() {
		run.FinishedAt = time.Now()
		run.Result = services.Outcome(err)
		if err != nil && run.Reason == "" {
			run.Reason = err.Error()
		}
		if run.SourceID == "" {
			return
		}
		if recErr := p.manifest.RecordRun(context.WithoutCancel(ctx), run); recErr != nil {
			logging.WithContext(ctx, p.logger).Warn("failed to record run", logging.Error(recErr))
		}
	}()

	media, err := config.ExpandPath(strings.TrimSpace(mediaArg))
	if err != nil {
		return err
	}
	run.MediaPath = media
	run.SourceID = captions.SourceIDFor(media)
	if _, statErr := os.Stat(media); statErr != nil {
		return services.Wrap(services.ErrNotFound, "process", "stat media", media, statErr)
	}

	captionsPath := strings.TrimSpace(opts.captionsPath)
	if captionsPath == "" {
		captionsPath, err = captions.FindForMedia(media, p.cfg.WhisperX.Language)
		if err != nil {
			return err
		}
	}
	track, err := captions.ReadFile(captionsPath, strings.TrimSpace(opts.sourceID))
	if err != nil {
		return err
	}
	track.MediaPath = media
	run.SourceID = track.SourceID
	ctx = services.WithSourceID(ctx, track.SourceID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("processing source",
		logging.String("captions", captionsPath),
		logging.String("language", language.DisplayName(p.cfg.WhisperX.Language)),
		logging.Int("cues", track.Len()),
	)

	chain, err := filters.ChainFromConfig(p.cfg, p.logger)
	if err != nil {
		return err
	}
	service := p.cc.whisperService(p.cfg)

	var validator *reliability.Validator
	if p.cfg.Validation.Enabled {
		validator = &reliability.Validator{
			Oracle: whisperx.NewOracle(service, media, p.cfg.Paths.WorkDir),
			Config: reliability.SampleConfigFromConfig(p.cfg),
			Logger: p.logger,
		}
	}

	result, err := filters.Run(ctx, track, chain, validator)
	run.Candidates = result.Candidates
	if err != nil {
		return err
	}
	run.Accepted = result.Accepted()
	run.Verdict = string(result.Verdict)
	run.Reason = result.Reason
	if result.Report != nil {
		run.MeanSimilarity = result.Report.MeanSimilarity
	}

	var summary corpus.Summary
	if !result.Empty() {
		info, infoErr := corpus.ReadInfoSidecar(media)
		if infoErr != nil {
			logger.Warn("ignoring unreadable info sidecar", logging.Error(infoErr))
		}
		exporter := corpus.NewExporter(p.cfg.Paths.CorpusDir, service,
			corpus.WithManifest(p.manifest),
			corpus.WithLogger(p.logger),
			corpus.WithMinAudioBytes(p.cfg.Export.MinAudioBytes),
			corpus.WithProgress(p.progress),
		)
		summary, err = exporter.Export(ctx, corpus.Source{
			SourceID:  track.SourceID,
			MediaPath: media,
			RunID:     run.ID,
			Info:      info,
		}, result.Intervals)
		run.Exported = summary.Written
		if err != nil {
			return err
		}
	}

	printProcessSummary(p.out, run, summary)
	return nil
}

func printProcessSummary(out io.Writer, run corpus.Run, summary corpus.Summary) {
	fmt.Fprintf(out, "Source:     %s\n", run.SourceID)
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Candidates: %d\n", run.Candidates)
	fmt.Fprintf(out, "Accepted:   %d\n", run.Accepted)
	fmt.Fprintf(out, "Verdict:    %s\n", run.Verdict)
	if run.Reason != "" {
		fmt.Fprintf(out, "Reason:     %s\n", run.Reason)
	}
	fmt.Fprintf(out, "Written:    %d (skipped %d existing, %d empty)\n", summary.Written, summary.Skipped, summary.Empty)
}
