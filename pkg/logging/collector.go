package logging

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// Collector records the per-entry failures a run absorbs and logs each one.
// It is safe for concurrent use.
type Collector struct {
	logger Logger

	mu       sync.Mutex
	failures []models.Failure
}

// NewCollector creates a collector logging through logger (nil discards)
func NewCollector(logger Logger) *Collector {
	if logger == nil {
		logger = NewNullLogger()
	}
	return &Collector{logger: logger}
}

// Logger returns the logger failures are written to
func (c *Collector) Logger() Logger {
	return c.logger
}

// Fail records a failed operation on path
func (c *Collector) Fail(ctx context.Context, op models.Op, path string, err error) {
	c.logger.Warn(ctx, string(op)+" failed", err, Fields{"path": path, "op": string(op)})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, models.Failure{
		Path:  path,
		Op:    op,
		Error: err.Error(),
		Time:  time.Now(),
	})
}

// Len returns the number of recorded failures
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

// Failures returns a copy of the recorded failures ordered by path, then op
func (c *Collector) Failures() []models.Failure {
	c.mu.Lock()
	out := make([]models.Failure, len(c.failures))
	copy(out, c.failures)
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Op < out[j].Op
	})
	return out
}
