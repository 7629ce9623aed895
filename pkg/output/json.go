package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/treediff/pkg/models"
)

// JSONFormatter formats the report as a single JSON document for automation
// and scripting
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONReport is the JSON form of a report
type JSONReport struct {
	OperationID string    `json:"operation_id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Strict      bool      `json:"strict"`
	ChunkSize   int       `json:"chunk_size"`
	Merged      bool      `json:"merged"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Duration    string    `json:"duration"`
	DurationMs  int64     `json:"duration_ms"`
	Status      string    `json:"status"`

	Stats JSONStats `json:"stats"`

	Added    []JSONEntry    `json:"added"`
	Deleted  []JSONEntry    `json:"deleted"`
	Modified []JSONModified `json:"modified"`
	Moved    []JSONMoved    `json:"moved"`

	Failures []JSONFailure `json:"failures,omitempty"`
}

// JSONStats represents run statistics
type JSONStats struct {
	SourceFiles       int    `json:"source_files"`
	SourceDirs        int    `json:"source_dirs"`
	DestFiles         int    `json:"dest_files"`
	DestDirs          int    `json:"dest_dirs"`
	Added             int    `json:"added"`
	Deleted           int    `json:"deleted"`
	Modified          int    `json:"modified"`
	Moved             int    `json:"moved"`
	OperationsApplied int    `json:"operations_applied"`
	OperationsFailed  int    `json:"operations_failed"`
	BytesCopied       int64  `json:"bytes_copied"`
	BytesCopiedHuman  string `json:"bytes_copied_human"`
}

// JSONEntry represents an added or deleted entry
type JSONEntry struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir"`
}

// JSONModified represents a modified file
type JSONModified struct {
	Path        string `json:"path"`
	OldSize     int64  `json:"old_size"`
	NewSize     int64  `json:"new_size"`
	ContentOnly bool   `json:"content_only"`
}

// JSONMoved represents a moved file, from its destination path to its source path
type JSONMoved struct {
	From string `json:"from"`
	To   string `json:"to"`
	Size int64  `json:"size"`
}

// JSONFailure represents an absorbed per-entry failure
type JSONFailure struct {
	Path  string    `json:"path"`
	Op    string    `json:"op"`
	Error string    `json:"error"`
	Time  time.Time `json:"time"`
}

// Format writes the report as indented JSON
func (f *JSONFormatter) Format(w io.Writer, report *models.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewJSONReport(report))
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// NewJSONReport converts a report to its JSON form
func NewJSONReport(report *models.Report) JSONReport {
	out := JSONReport{
		OperationID: report.OperationID,
		Source:      report.SourcePath,
		Destination: report.DestPath,
		Strict:      report.Strict,
		ChunkSize:   report.ChunkSize,
		Merged:      report.Merged,
		StartTime:   report.StartTime,
		EndTime:     report.EndTime,
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Status:      string(report.Status),
		Stats: JSONStats{
			SourceFiles:       report.Stats.SourceFiles,
			SourceDirs:        report.Stats.SourceDirs,
			DestFiles:         report.Stats.DestFiles,
			DestDirs:          report.Stats.DestDirs,
			Added:             report.Stats.Added,
			Deleted:           report.Stats.Deleted,
			Modified:          report.Stats.Modified,
			Moved:             report.Stats.Moved,
			OperationsApplied: report.Stats.OperationsApplied,
			OperationsFailed:  report.Stats.OperationsFailed,
			BytesCopied:       report.Stats.BytesCopied,
			BytesCopiedHuman:  humanize.IBytes(uint64(report.Stats.BytesCopied)),
		},
		Added:    make([]JSONEntry, 0, len(report.Plan.Added)),
		Deleted:  make([]JSONEntry, 0, len(report.Plan.Deleted)),
		Modified: make([]JSONModified, 0, len(report.Plan.Modified)),
		Moved:    make([]JSONMoved, 0, len(report.Plan.Moved)),
	}

	for _, d := range report.Plan.Added {
		out.Added = append(out.Added, jsonEntry(d))
	}
	for _, d := range report.Plan.Deleted {
		out.Deleted = append(out.Deleted, jsonEntry(d))
	}
	for _, p := range report.Plan.Modified {
		out.Modified = append(out.Modified, JSONModified{
			Path:        p.Source.RelativePath,
			OldSize:     p.Dest.Size,
			NewSize:     p.Source.Size,
			ContentOnly: p.ContentOnly(),
		})
	}
	for _, p := range report.Plan.Moved {
		out.Moved = append(out.Moved, JSONMoved{
			From: p.Dest.RelativePath,
			To:   p.Source.RelativePath,
			Size: p.Source.Size,
		})
	}
	for _, failure := range report.Failures {
		out.Failures = append(out.Failures, JSONFailure{
			Path:  failure.Path,
			Op:    string(failure.Op),
			Error: failure.Error,
			Time:  failure.Time,
		})
	}

	return out
}

func jsonEntry(d *models.Descriptor) JSONEntry {
	return JSONEntry{
		Path:  d.RelativePath,
		Kind:  d.Kind(),
		Size:  d.Size,
		IsDir: d.IsDir,
	}
}
