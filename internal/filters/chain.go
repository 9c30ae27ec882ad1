package filters

import (
	"context"
	"fmt"
	"log/slog"

	"captioncorpus/internal/logging"
	"captioncorpus/internal/services"
)

// StageKind distinguishes the two stage capabilities.
type StageKind int

const (
	// KindTransform maps a batch to a new batch.
	KindTransform StageKind = iota
	// KindPredicate gates the batch as a whole.
	KindPredicate
)

func (k StageKind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindPredicate:
		return "predicate"
	default:
		return fmt.Sprintf("StageKind(%d)", int(k))
	}
}

// TransformFunc maps a batch to a new batch. Errors are reserved for input
// contract violations; filtering everything out is not an error.
type TransformFunc func(ctx context.Context, batch Batch) (Batch, error)

// PredicateFunc reports whether the batch may continue through the chain.
type PredicateFunc func(ctx context.Context, batch Batch) (bool, error)

// Stage is one named step of a chain. Exactly one of the function fields is
// set, matching Kind.
type Stage struct {
	name      string
	kind      StageKind
	transform TransformFunc
	predicate PredicateFunc
}

// NewTransform builds a transform stage.
func NewTransform(name string, fn TransformFunc) Stage {
	return Stage{name: name, kind: KindTransform, transform: fn}
}

// NewPredicate builds a predicate stage.
func NewPredicate(name string, fn PredicateFunc) Stage {
	return Stage{name: name, kind: KindPredicate, predicate: fn}
}

// Name returns the stage name used in logs and rejection reasons.
func (s Stage) Name() string { return s.name }

// Kind returns the stage capability.
func (s Stage) Kind() StageKind { return s.kind }

// Chain applies stages in order.
type Chain struct {
	stages []Stage
	logger *slog.Logger
}

// NewChain builds a chain. A nil logger discards output.
func NewChain(logger *slog.Logger, stages ...Stage) *Chain {
	return &Chain{
		stages: append([]Stage(nil), stages...),
		logger: logging.NewComponentLogger(logger, "filters"),
	}
}

// Stages returns a copy of the stage list.
func (c *Chain) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Names lists stage names in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.stages))
	for _, stage := range c.stages {
		names = append(names, stage.name)
	}
	return names
}

// Append returns a new chain with stages added at the end.
func (c *Chain) Append(stages ...Stage) *Chain {
	return &Chain{stages: append(c.Stages(), stages...), logger: c.logger}
}

// Apply runs every stage over batch. It returns early with an empty rejected
// batch when a predicate fails, and with an error when ctx is done at a stage
// boundary or a stage reports an input contract violation.
func (c *Chain) Apply(ctx context.Context, batch Batch) (Batch, error) {
	if batch.SourceID != "" {
		ctx = services.WithSourceID(ctx, batch.SourceID)
	}
	for _, stage := range c.stages {
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("filter chain stopped before %s: %w", stage.name, err)
		}
		stageCtx := services.WithStage(ctx, stage.name)
		logger := logging.WithContext(stageCtx, c.logger)
		before := batch.Len()

		switch stage.kind {
		case KindPredicate:
			ok, err := stage.predicate(stageCtx, batch)
			if err != nil {
				return batch, fmt.Errorf("stage %s: %w", stage.name, err)
			}
			if !ok {
				attrs := append(logging.DecisionAttrs("filter_predicate", "reject", stage.name),
					logging.Int("intervals_in", before))
				logger.Info("filter predicate rejected batch", logging.Args(attrs...)...)
				return batch.Reject(stage.name), nil
			}
			logger.Debug("filter predicate passed", logging.Int("intervals_in", before))
		default:
			next, err := stage.transform(stageCtx, batch)
			if err != nil {
				return batch, fmt.Errorf("stage %s: %w", stage.name, err)
			}
			batch = next
			logger.Info("filter stage applied",
				logging.Int("intervals_in", before),
				logging.Int("intervals_out", batch.Len()),
			)
		}
	}
	return batch, nil
}
