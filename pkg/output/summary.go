package output

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/sdejongh/treediff/pkg/models"
)

// WriteSummary renders the per-category counts of report as a table
func WriteSummary(w io.Writer, report *models.Report) {
	stats := report.Stats

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Count"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := [][]string{
		{"Source", strconv.Itoa(stats.SourceFiles) + " files, " + strconv.Itoa(stats.SourceDirs) + " dirs"},
		{"Destination", strconv.Itoa(stats.DestFiles) + " files, " + strconv.Itoa(stats.DestDirs) + " dirs"},
		{"Added", strconv.Itoa(stats.Added)},
		{"Deleted", strconv.Itoa(stats.Deleted)},
		{"Modified", strconv.Itoa(stats.Modified)},
		{"Moved", strconv.Itoa(stats.Moved)},
	}
	if report.Merged {
		rows = append(rows,
			[]string{"Applied", strconv.Itoa(stats.OperationsApplied)},
			[]string{"Failed", strconv.Itoa(stats.OperationsFailed)},
			[]string{"Copied", humanize.IBytes(uint64(stats.BytesCopied))},
		)
	}
	rows = append(rows,
		[]string{"Failures", strconv.Itoa(len(report.Failures))},
		[]string{"Status", string(report.Status)},
	)

	table.AppendBulk(rows)
	table.Render()
}
