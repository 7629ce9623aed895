package models

import (
	"time"
)

// OutputFormat selects how the plan is printed
type OutputFormat string

const (
	// OutputHuman prints one line per entry
	OutputHuman OutputFormat = "human"
	// OutputJSON prints a single JSON document
	OutputJSON OutputFormat = "json"
)

// Chunk sizes accepted by the content comparator
const (
	MinChunkSize = 1024
	MaxChunkSize = 64 << 20
)

// DiffOperation is the immutable configuration of one diff run.
// It is built once by the CLI and handed to every component by value.
type DiffOperation struct {
	ID              string
	SourcePath      string
	DestPath        string
	Strict          bool
	ChunkSize       int // bytes
	Merge           bool
	ExcludePatterns []string
	MaxWorkers      int
	BandwidthLimit  int64 // bytes per second, 0 = unlimited
	FailOnError     bool
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op DiffOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if op.DestPath == "" {
		return &ValidationError{Field: "DestPath", Message: "destination path is required"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.ChunkSize < MinChunkSize {
		return &ValidationError{Field: "ChunkSize", Message: "chunk size must be at least 1 KiB"}
	}
	if op.ChunkSize > MaxChunkSize {
		return &ValidationError{Field: "ChunkSize", Message: "chunk size must be at most 64 MiB"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
