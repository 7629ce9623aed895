// Package workerpool runs independent units of work on a bounded set of
// goroutines.
//
// When every worker is busy, Go runs the task on the calling goroutine
// instead of blocking. Tasks may therefore submit further tasks without
// deadlocking the pool, which the recursive snapshot walk relies on.
package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool is a bounded fan-out of tasks that never fail.
// Tasks report their own problems; the pool only waits for them.
type Pool struct {
	group *errgroup.Group
	ctx   context.Context
}

// New creates a pool running at most size tasks concurrently.
// A size below 1 defaults to the number of CPUs.
func New(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	group := &errgroup.Group{}
	group.SetLimit(size)
	return &Pool{group: group, ctx: ctx}
}

// Go schedules task, running it inline when the pool is saturated
func (p *Pool) Go(task func(ctx context.Context)) {
	if p.group.TryGo(func() error {
		task(p.ctx)
		return nil
	}) {
		return
	}
	task(p.ctx)
}

// Wait blocks until every scheduled task has returned
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// ForEach runs fn for every index in [0, n) on a fresh pool and waits
func ForEach(ctx context.Context, size, n int, fn func(ctx context.Context, i int)) {
	pool := New(ctx, size)
	for i := 0; i < n; i++ {
		i := i
		pool.Go(func(ctx context.Context) {
			fn(ctx, i)
		})
	}
	pool.Wait()
}
