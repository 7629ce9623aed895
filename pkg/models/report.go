package models

import (
	"time"
)

// Report represents the results of a diff run
type Report struct {
	// Operation details
	OperationID string
	SourcePath  string
	DestPath    string
	Strict      bool
	ChunkSize   int
	Merged      bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats Statistics

	// Plan is the classified difference, sorted by path
	Plan Plan

	// Failures are the per-entry problems absorbed during the run
	Failures []Failure

	Status Status
}

// Statistics holds run metrics
type Statistics struct {
	SourceFiles int
	SourceDirs  int
	DestFiles   int
	DestDirs    int

	Added    int
	Deleted  int
	Modified int
	Moved    int

	// Reconciliation, zero unless merged
	OperationsApplied int
	OperationsFailed  int
	BytesCopied       int64
}

// Op names the step that produced a failure
type Op string

const (
	OpWalk    Op = "walk"
	OpStat    Op = "stat"
	OpCompare Op = "compare"
	OpDelete  Op = "delete"
	OpMkdir   Op = "mkdir"
	OpCopy    Op = "copy"
	OpUpdate  Op = "update"
	OpRename  Op = "rename"
)

// Failure is one absorbed per-entry error
type Failure struct {
	Path  string
	Op    Op
	Error string
	Time  time.Time
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates no failure was recorded
	StatusSuccess Status = "success"
	// StatusPartial indicates some entries or operations failed
	StatusPartial Status = "partial"
)

// StatusFor derives the run status from the recorded failures
func StatusFor(failures []Failure) Status {
	if len(failures) > 0 {
		return StatusPartial
	}
	return StatusSuccess
}

// ExitCode returns the process exit code. Failures only change the exit
// code when failOnError is set.
func (s Status) ExitCode(failOnError bool) int {
	if failOnError && s != StatusSuccess {
		return 1
	}
	return 0
}
