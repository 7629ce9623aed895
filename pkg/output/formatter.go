package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/treediff/pkg/models"
)

// Formatter renders a finished report
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Format writes the report to w
	Format(w io.Writer, report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for an output format
func NewFormatter(format models.OutputFormat) (Formatter, error) {
	switch format {
	case models.OutputHuman, "":
		return NewHumanFormatter(), nil
	case models.OutputJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// ProgressUpdate represents one finished reconciliation operation
type ProgressUpdate struct {
	Op    models.Op
	Path  string
	Bytes int64
	Error error
}

// Progress receives reconciliation events. Implementations must be safe
// for concurrent use.
type Progress interface {
	// Start announces the number of operations about to run
	Start(totalOps int)

	// Update reports a finished operation
	Update(update ProgressUpdate)

	// Finish ends the display
	Finish()
}

// NullProgress discards every event
type NullProgress struct{}

// Start does nothing
func (NullProgress) Start(int) {}

// Update does nothing
func (NullProgress) Update(ProgressUpdate) {}

// Finish does nothing
func (NullProgress) Finish() {}
