// Package diff classifies the differences between two snapshots.
//
// Every descriptor of either snapshot ends up in exactly one place: unchanged
// (not recorded), one side of a modified pair, added, deleted, or one side of
// a moved pair.
package diff

import (
	"context"
	"sync"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/workerpool"
)

// Classifier compares a source snapshot with a destination snapshot
type Classifier struct {
	source     storage.Backend
	dest       storage.Backend
	comparator compare.Comparator
	workers    int
	logger     logging.Logger
}

// NewClassifier creates a classifier reading content through comparator
// when sizes alone cannot tell two files apart
func NewClassifier(source, dest storage.Backend, comparator compare.Comparator, workers int, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Classifier{
		source:     source,
		dest:       dest,
		comparator: comparator,
		workers:    workers,
		logger:     logger,
	}
}

// Classify returns the added, deleted and modified entries. Moves are not
// detected here; see MoveMatcher.
func (c *Classifier) Classify(ctx context.Context, sourceSnap, destSnap models.Snapshot) models.Plan {
	var (
		mu   sync.Mutex
		plan models.Plan
	)

	var common []string
	for _, path := range sourceSnap.Paths() {
		if _, ok := destSnap[path]; ok {
			common = append(common, path)
			continue
		}
		plan.Added = append(plan.Added, sourceSnap[path])
	}
	for _, path := range destSnap.Paths() {
		if _, ok := sourceSnap[path]; !ok {
			plan.Deleted = append(plan.Deleted, destSnap[path])
		}
	}

	workerpool.ForEach(ctx, c.workers, len(common), func(ctx context.Context, i int) {
		src := sourceSnap[common[i]]
		dst := destSnap[common[i]]

		switch c.classifyCommon(ctx, src, dst) {
		case typeChanged:
			mu.Lock()
			plan.Added = append(plan.Added, src)
			plan.Deleted = append(plan.Deleted, dst)
			mu.Unlock()
		case contentChanged:
			mu.Lock()
			plan.Modified = append(plan.Modified, models.Pair{Source: src, Dest: dst})
			mu.Unlock()
		}
	})

	plan.Sort()

	c.logger.Debug(ctx, "Classification completed", logging.Fields{
		"common":   len(common),
		"added":    len(plan.Added),
		"deleted":  len(plan.Deleted),
		"modified": len(plan.Modified),
	})

	return plan
}

type outcome int

const (
	unchanged outcome = iota
	typeChanged
	contentChanged
)

func (c *Classifier) classifyCommon(ctx context.Context, src, dst *models.Descriptor) outcome {
	switch {
	case src.IsDir != dst.IsDir:
		return typeChanged
	case src.IsDir:
		return unchanged
	case src.Size != dst.Size:
		return contentChanged
	case !c.comparator.Equal(ctx, c.source, c.dest, src, dst):
		return contentChanged
	default:
		return unchanged
	}
}
