package sync

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
	"github.com/sdejongh/treediff/pkg/ratelimit"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/workerpool"
)

// ExecutionStats summarizes what a reconciliation did
type ExecutionStats struct {
	Applied     int
	Failed      int
	BytesCopied int64
}

// Executor applies a plan to the destination tree.
//
// Phases run in a fixed order and each one completes before the next starts:
//  1. deletes, deepest first, one at a time and never recursive
//  2. added directories, shallowest first, then added files (never overwriting)
//  3. modified files, overwritten in place
//  4. moves, renamed from their old path to their new path
//  5. directory deletes from phase 1 that failed, retried deepest first
//  6. added entries whose path was held by a directory deferred in phase 1
//
// Every operation fails on its own; nothing is rolled back.
type Executor struct {
	source    storage.Backend
	dest      storage.Backend
	workers   int
	limiter   *ratelimit.Limiter
	collector *logging.Collector
	progress  output.Progress

	applied     atomic.Int64
	failed      atomic.Int64
	bytesCopied atomic.Int64
}

// NewExecutor creates an executor copying from source into dest.
// limiter may be nil for unlimited copies, progress may be nil.
func NewExecutor(source, dest storage.Backend, workers int, limiter *ratelimit.Limiter, collector *logging.Collector, progress output.Progress) *Executor {
	if collector == nil {
		collector = logging.NewCollector(nil)
	}
	if progress == nil {
		progress = output.NullProgress{}
	}
	return &Executor{
		source:    source,
		dest:      dest,
		workers:   workers,
		limiter:   limiter,
		collector: collector,
		progress:  progress,
	}
}

// Apply runs every phase against plan and returns the totals
func (e *Executor) Apply(ctx context.Context, plan models.Plan) ExecutionStats {
	logger := e.collector.Logger()
	logger.Info(ctx, "Applying changes to destination", logging.Fields{
		"deleted":  len(plan.Deleted),
		"added":    len(plan.Added),
		"modified": len(plan.Modified),
		"moved":    len(plan.Moved),
	})

	e.progress.Start(plan.Len())
	defer e.progress.Finish()

	deferred := e.deleteAll(ctx, plan.Deleted)
	postponed := e.createAll(ctx, plan.Added, deferred)
	e.updateAll(ctx, plan.Modified)
	e.renameAll(ctx, plan.Moved)
	e.retryDeletes(ctx, deferred)
	e.createAll(ctx, postponed, nil)

	stats := ExecutionStats{
		Applied:     int(e.applied.Load()),
		Failed:      int(e.failed.Load()),
		BytesCopied: e.bytesCopied.Load(),
	}

	logger.Info(ctx, "Destination updated", logging.Fields{
		"applied":      stats.Applied,
		"failed":       stats.Failed,
		"bytes_copied": stats.BytesCopied,
	})

	return stats
}

// deleteAll removes deleted entries deepest first. Directories that cannot
// be removed yet are returned for a retry after the renames.
func (e *Executor) deleteAll(ctx context.Context, deleted []*models.Descriptor) []*models.Descriptor {
	ordered := append([]*models.Descriptor(nil), deleted...)
	sortByDepth(ordered, true)

	var deferred []*models.Descriptor
	for _, d := range ordered {
		err := e.dest.Delete(ctx, d.RelativePath)
		if err != nil && d.IsDir {
			e.collector.Logger().Debug(ctx, "Directory not empty yet, retrying after renames", logging.Fields{
				"path": d.RelativePath,
			})
			deferred = append(deferred, d)
			continue
		}
		e.done(ctx, models.OpDelete, d.RelativePath, 0, err)
	}
	return deferred
}

// createAll creates added directories, then copies added files. Entries
// sitting on the path of a blocked directory are returned untouched.
func (e *Executor) createAll(ctx context.Context, added, blocked []*models.Descriptor) []*models.Descriptor {
	held := make(map[string]bool, len(blocked))
	for _, d := range blocked {
		held[d.RelativePath] = true
	}

	var dirs, files, postponed []*models.Descriptor
	for _, d := range added {
		if held[d.RelativePath] {
			postponed = append(postponed, d)
			continue
		}
		if d.IsDir {
			dirs = append(dirs, d)
		} else {
			files = append(files, d)
		}
	}
	sortByDepth(dirs, false)

	workerpool.ForEach(ctx, e.workers, len(dirs), func(ctx context.Context, i int) {
		err := e.dest.MkdirAll(ctx, dirs[i].RelativePath)
		e.done(ctx, models.OpMkdir, dirs[i].RelativePath, 0, err)
	})

	workerpool.ForEach(ctx, e.workers, len(files), func(ctx context.Context, i int) {
		n, err := e.copyFile(ctx, files[i].RelativePath, storage.CreateOnly)
		e.done(ctx, models.OpCopy, files[i].RelativePath, n, err)
	})

	return postponed
}

// updateAll overwrites modified files with their source content
func (e *Executor) updateAll(ctx context.Context, modified []models.Pair) {
	workerpool.ForEach(ctx, e.workers, len(modified), func(ctx context.Context, i int) {
		path := modified[i].Source.RelativePath
		n, err := e.copyFile(ctx, path, storage.Overwrite)
		e.done(ctx, models.OpUpdate, path, n, err)
	})
}

// renameAll moves every pair from its destination path to its source path
func (e *Executor) renameAll(ctx context.Context, moved []models.Pair) {
	workerpool.ForEach(ctx, e.workers, len(moved), func(ctx context.Context, i int) {
		from := moved[i].Dest.RelativePath
		to := moved[i].Source.RelativePath
		err := e.dest.Rename(ctx, from, to)
		e.done(ctx, models.OpRename, to, 0, err)
	})
}

// retryDeletes gives deferred directories a second chance once moved
// entries have left them
func (e *Executor) retryDeletes(ctx context.Context, deferred []*models.Descriptor) {
	for _, d := range deferred {
		err := e.dest.Delete(ctx, d.RelativePath)
		e.done(ctx, models.OpDelete, d.RelativePath, 0, err)
	}
}

// copyFile streams a source file into the destination, preserving its
// permissions and modification time
func (e *Executor) copyFile(ctx context.Context, path string, mode storage.WriteMode) (int64, error) {
	info, err := e.source.Stat(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to get source metadata: %w", err)
	}

	reader, err := e.source.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to read source: %w", err)
	}
	limited := ratelimit.NewReadCloser(ctx, reader, e.limiter)
	defer limited.Close()

	n, err := e.dest.Write(ctx, path, io.Reader(limited), mode, info)
	if err != nil {
		return n, fmt.Errorf("failed to write destination: %w", err)
	}
	return n, nil
}

// done records the outcome of one operation
func (e *Executor) done(ctx context.Context, op models.Op, path string, bytes int64, err error) {
	if err != nil {
		e.failed.Add(1)
		e.collector.Fail(ctx, op, path, err)
	} else {
		e.applied.Add(1)
		e.bytesCopied.Add(bytes)
		e.collector.Logger().Debug(ctx, string(op)+" applied", logging.Fields{"path": path})
	}
	e.progress.Update(output.ProgressUpdate{Op: op, Path: path, Bytes: bytes, Error: err})
}

// sortByDepth orders descriptors by depth, then by path. Deepest first
// when deepest is set, shallowest first otherwise.
func sortByDepth(ds []*models.Descriptor, deepest bool) {
	sort.SliceStable(ds, func(i, j int) bool {
		di, dj := ds[i].Depth(), ds[j].Depth()
		if di != dj {
			if deepest {
				return di > dj
			}
			return di < dj
		}
		return ds[i].RelativePath < ds[j].RelativePath
	})
}
