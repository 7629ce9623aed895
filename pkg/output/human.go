package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/models"
)

// HumanFormatter prints one line per difference, grouped by category
// (added, deleted, modified, moved) and sorted by path, followed by the
// elapsed time
type HumanFormatter struct{}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Format writes the difference lines and the elapsed time
func (f *HumanFormatter) Format(w io.Writer, report *models.Report) error {
	bw := bufio.NewWriter(w)
	writePlan(bw, &report.Plan)
	fmt.Fprintf(bw, "Time elapsed: %.3fs\n", report.Duration.Seconds())
	return bw.Flush()
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func writePlan(w io.Writer, plan *models.Plan) {
	for _, d := range plan.Added {
		fmt.Fprintf(w, "Added: %s (%s)\n", d.RelativePath, d.Kind())
	}
	for _, d := range plan.Deleted {
		fmt.Fprintf(w, "Deleted: %s (%s)\n", d.RelativePath, d.Kind())
	}
	for _, p := range plan.Modified {
		fmt.Fprintf(w, "Modified: %s (%s)\n", p.Source.RelativePath, modification(p))
	}
	for _, p := range plan.Moved {
		fmt.Fprintf(w, "Moved: %s -> %s\n", p.Dest.RelativePath, p.Source.RelativePath)
	}
}

func modification(p models.Pair) string {
	if p.ContentOnly() {
		return "content modified"
	}
	return fmt.Sprintf("%d -> %d", p.Dest.Size, p.Source.Size)
}
