// Package sync runs a diff between two trees and optionally reconciles the
// destination with the source.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/diff"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/snapshot"
	"github.com/sdejongh/treediff/pkg/storage"
)

// Engine orchestrates one diff run
type Engine struct {
	source    storage.Backend
	dest      storage.Backend
	operation models.DiffOperation
	logger    logging.Logger
	progress  output.Progress
}

// NewEngine creates a new engine. logger and progress may be nil.
func NewEngine(
	source, dest storage.Backend,
	operation models.DiffOperation,
	logger logging.Logger,
	progress output.Progress,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if progress == nil {
		progress = output.NullProgress{}
	}
	return &Engine{
		source:    source,
		dest:      dest,
		operation: operation,
		logger:    logger,
		progress:  progress,
	}
}

// Run snapshots both trees, classifies their differences, detects moves and,
// when the operation asks for it, applies the plan to the destination.
// Per-entry problems never fail the run; they are listed in the report.
// A cancelled context does: an incomplete snapshot must never be applied.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	op := e.operation
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operation: %w", err)
	}
	if err := snapshot.ValidatePatterns(op.ExcludePatterns); err != nil {
		return nil, fmt.Errorf("invalid operation: %w", &models.ValidationError{
			Field:   "ExcludePatterns",
			Message: err.Error(),
		})
	}

	report := &models.Report{
		OperationID: op.ID,
		SourcePath:  op.SourcePath,
		DestPath:    op.DestPath,
		Strict:      op.Strict,
		ChunkSize:   op.ChunkSize,
		Merged:      op.Merge,
		StartTime:   time.Now(),
	}

	logger := e.logger.WithFields(logging.Fields{"operation_id": op.ID})
	collector := logging.NewCollector(logger)

	logger.Info(ctx, "Starting diff", logging.Fields{
		"source":      op.SourcePath,
		"dest":        op.DestPath,
		"strict":      op.Strict,
		"chunk_size":  op.ChunkSize,
		"merge":       op.Merge,
		"max_workers": op.MaxWorkers,
	})

	// Phase 1: snapshot both trees concurrently
	sourceSnap, destSnap := snapshot.BuildPair(ctx,
		snapshot.NewBuilder(e.source, op.MaxWorkers, op.ExcludePatterns, collector),
		snapshot.NewBuilder(e.dest, op.MaxWorkers, op.ExcludePatterns, collector),
	)
	report.Stats.SourceFiles, report.Stats.SourceDirs = sourceSnap.Counts()
	report.Stats.DestFiles, report.Stats.DestDirs = destSnap.Counts()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("diff interrupted during scan: %w", err)
	}

	// Phase 2: classify and pair moves
	comparator := compare.For(op, collector)
	plan := diff.NewClassifier(e.source, e.dest, comparator, op.MaxWorkers, logger).
		Classify(ctx, sourceSnap, destSnap)
	diff.NewMoveMatcher(e.source, e.dest, comparator, op.MaxWorkers, logger).
		Match(ctx, &plan)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("diff interrupted during comparison: %w", err)
	}

	report.Plan = plan
	report.Stats.Added = len(plan.Added)
	report.Stats.Deleted = len(plan.Deleted)
	report.Stats.Modified = len(plan.Modified)
	report.Stats.Moved = len(plan.Moved)

	// Phase 3: reconcile
	if op.Merge && !plan.Empty() {
		executor := NewExecutor(e.source, e.dest, op.MaxWorkers,
			ratelimit.NewLimiter(op.BandwidthLimit), collector, e.progress)
		stats := executor.Apply(ctx, plan)

		report.Stats.OperationsApplied = stats.Applied
		report.Stats.OperationsFailed = stats.Failed
		report.Stats.BytesCopied = stats.BytesCopied
	}

	report.Failures = collector.Failures()
	report.Status = models.StatusFor(report.Failures)
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	logger.Info(ctx, "Diff completed", logging.Fields{
		"duration": report.Duration.String(),
		"status":   report.Status,
		"added":    report.Stats.Added,
		"deleted":  report.Stats.Deleted,
		"modified": report.Stats.Modified,
		"moved":    report.Stats.Moved,
		"failures": len(report.Failures),
	})

	return report, nil
}
