// Package snapshot walks a tree and records every entry below its root.
package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/workerpool"
)

// Builder produces the snapshot of one tree
type Builder struct {
	backend   storage.Backend
	workers   int
	excluder  *Excluder
	collector *logging.Collector
}

// NewBuilder creates a builder walking backend with at most workers
// concurrent directory reads. Entries matching exclude are skipped and
// excluded directories are not descended.
func NewBuilder(backend storage.Backend, workers int, exclude []string, collector *logging.Collector) *Builder {
	if collector == nil {
		collector = logging.NewCollector(nil)
	}
	return &Builder{
		backend:   backend,
		workers:   workers,
		excluder:  NewExcluder(exclude),
		collector: collector,
	}
}

// walk holds the state shared by the directory tasks of one Build call
type walk struct {
	*Builder
	pool *workerpool.Pool

	mu      sync.Mutex
	entries models.Snapshot
}

// Build walks the whole tree. Entries that cannot be read are skipped and
// recorded as failures; if the root itself cannot be listed the snapshot is
// empty.
func (b *Builder) Build(ctx context.Context) models.Snapshot {
	w := &walk{
		Builder: b,
		pool:    workerpool.New(ctx, b.workers),
		entries: make(models.Snapshot),
	}

	logger := b.collector.Logger()
	logger.Debug(ctx, "Scanning tree", logging.Fields{"root": b.backend.Root()})

	root := "."
	w.pool.Go(func(ctx context.Context) {
		w.readDir(ctx, root)
	})
	w.pool.Wait()

	files, dirs := w.entries.Counts()
	logger.Debug(ctx, "Scan completed", logging.Fields{
		"root":  b.backend.Root(),
		"files": files,
		"dirs":  dirs,
	})

	return w.entries
}

func (w *walk) readDir(ctx context.Context, dir string) {
	path := dir
	if dir == "." {
		path = w.backend.Root()
	}

	// An interrupted walk leaves the snapshot incomplete; say so.
	if err := ctx.Err(); err != nil {
		w.collector.Fail(ctx, models.OpWalk, path, err)
		return
	}

	infos, err := w.backend.ReadDir(ctx, dir)
	if err != nil {
		w.collector.Fail(ctx, models.OpWalk, path, err)
		return
	}

	for _, info := range infos {
		rel := filepath.Join(dir, info.Name())

		if info.Mode()&os.ModeSymlink != 0 {
			// Links are recorded as what they point to and never descended.
			target, err := w.backend.Stat(ctx, rel)
			if err != nil {
				w.collector.Fail(ctx, models.OpStat, rel, err)
				continue
			}
			if !w.excluder.Match(rel, target.IsDir()) {
				w.add(models.NewDescriptor(w.backend.Root(), rel, target.Size(), target.IsDir()))
			}
			continue
		}

		if w.excluder.Match(rel, info.IsDir()) {
			continue
		}

		w.add(models.NewDescriptor(w.backend.Root(), rel, info.Size(), info.IsDir()))

		if info.IsDir() {
			w.pool.Go(func(ctx context.Context) {
				w.readDir(ctx, rel)
			})
		}
	}
}

func (w *walk) add(d *models.Descriptor) {
	w.mu.Lock()
	w.entries[d.RelativePath] = d
	w.mu.Unlock()
}

// BuildPair snapshots source and destination concurrently
func BuildPair(ctx context.Context, source, dest *Builder) (models.Snapshot, models.Snapshot) {
	var sourceSnap, destSnap models.Snapshot
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceSnap = source.Build(ctx)
	}()
	go func() {
		defer wg.Done()
		destSnap = dest.Build(ctx)
	}()
	wg.Wait()
	return sourceSnap, destSnap
}
