package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/treediff/pkg/models"
)

// WriteDifferencesReport writes the plan and failures of report to a file.
// Format can be "human" or "json". Nothing is written when the run found no
// difference and recorded no failure.
func WriteDifferencesReport(report *models.Report, path string, format models.OutputFormat) (err error) {
	if report.Plan.Empty() && len(report.Failures) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create differences file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close differences file: %w", closeErr)
		}
	}()

	switch format {
	case models.OutputJSON:
		return NewJSONFormatter().Format(file, report)
	default:
		return writeDifferencesHuman(report, file)
	}
}

// writeDifferencesHuman writes differences in human-readable format
func writeDifferencesHuman(report *models.Report, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Differences Report\n")
	fmt.Fprintf(bw, "==================\n\n")
	fmt.Fprintf(bw, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(bw, "Run: %s\n", report.OperationID)
	fmt.Fprintf(bw, "Source: %s\n", report.SourcePath)
	fmt.Fprintf(bw, "Destination: %s\n", report.DestPath)
	fmt.Fprintf(bw, "Strict: %v\n", report.Strict)
	fmt.Fprintf(bw, "Merged: %v\n\n", report.Merged)
	fmt.Fprintf(bw, "Total Differences: %d\n\n", report.Plan.Len())

	writePlan(bw, &report.Plan)

	if len(report.Failures) > 0 {
		fmt.Fprintf(bw, "\nFailures (%d)\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Fprintf(bw, "  %s [%s]: %s\n", failure.Path, failure.Op, failure.Error)
		}
	}

	fmt.Fprintf(bw, "\nStatus: %s\n", report.Status)
	return bw.Flush()
}
