package diff

import (
	"context"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/workerpool"
)

// MoveMatcher pairs added files with deleted files of the same size.
//
// Both lists are walked in path order. Each added file takes the first
// deleted file of equal size that is not already taken, so the pairing is
// one-to-one and deterministic. Every candidate pair is then confirmed with
// the comparator; a rejected pair goes back to added and deleted and is not
// retried against another candidate.
type MoveMatcher struct {
	source     storage.Backend
	dest       storage.Backend
	comparator compare.Comparator
	workers    int
	logger     logging.Logger
}

// NewMoveMatcher creates a matcher confirming candidates with comparator
func NewMoveMatcher(source, dest storage.Backend, comparator compare.Comparator, workers int, logger logging.Logger) *MoveMatcher {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &MoveMatcher{
		source:     source,
		dest:       dest,
		comparator: comparator,
		workers:    workers,
		logger:     logger,
	}
}

// Match moves matched entries of plan.Added and plan.Deleted into plan.Moved
func (m *MoveMatcher) Match(ctx context.Context, plan *models.Plan) {
	models.SortDescriptors(plan.Added)
	models.SortDescriptors(plan.Deleted)

	candidates := pairCandidates(plan.Added, plan.Deleted)
	if len(candidates) == 0 {
		return
	}

	confirmed := make([]bool, len(candidates))
	workerpool.ForEach(ctx, m.workers, len(candidates), func(ctx context.Context, i int) {
		p := candidates[i]
		confirmed[i] = m.comparator.Equal(ctx, m.source, m.dest, p.Source, p.Dest)
	})

	matchedSource := make(map[*models.Descriptor]bool)
	matchedDest := make(map[*models.Descriptor]bool)
	rejected := 0
	for i, p := range candidates {
		if !confirmed[i] {
			rejected++
			continue
		}
		plan.Moved = append(plan.Moved, p)
		matchedSource[p.Source] = true
		matchedDest[p.Dest] = true
	}

	plan.Added = without(plan.Added, matchedSource)
	plan.Deleted = without(plan.Deleted, matchedDest)
	plan.Sort()

	m.logger.Debug(ctx, "Move detection completed", logging.Fields{
		"candidates": len(candidates),
		"moved":      len(plan.Moved),
		"rejected":   rejected,
	})
}

// pairCandidates expects both lists sorted by path
func pairCandidates(added, deleted []*models.Descriptor) []models.Pair {
	bySize := make(map[int64][]*models.Descriptor)
	for _, d := range deleted {
		if d.IsDir {
			continue
		}
		bySize[d.Size] = append(bySize[d.Size], d)
	}

	var pairs []models.Pair
	for _, a := range added {
		if a.IsDir {
			continue
		}
		queue := bySize[a.Size]
		if len(queue) == 0 {
			continue
		}
		pairs = append(pairs, models.Pair{Source: a, Dest: queue[0]})
		bySize[a.Size] = queue[1:]
	}
	return pairs
}

func without(ds []*models.Descriptor, drop map[*models.Descriptor]bool) []*models.Descriptor {
	if len(drop) == 0 {
		return ds
	}
	kept := ds[:0]
	for _, d := range ds {
		if !drop[d] {
			kept = append(kept, d)
		}
	}
	return kept
}
