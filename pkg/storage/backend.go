package storage

import (
	"context"
	"io"
	"os"
)

// WriteMode controls what Write does when the target already exists
type WriteMode int

const (
	// CreateOnly fails if the target exists
	CreateOnly WriteMode = iota
	// Overwrite replaces an existing target
	Overwrite
)

// Backend defines the interface for storage operations on one tree.
// All paths are relative to the tree root.
type Backend interface {
	// Root returns the root the relative paths resolve against
	Root() string

	// ReadDir lists the direct children of a directory without following links
	ReadDir(ctx context.Context, path string) ([]os.FileInfo, error)

	// Stat returns metadata, following symbolic links
	Stat(ctx context.Context, path string) (os.FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write stores the content of reader at path and returns the bytes written.
	// Mutating calls fail without touching the tree once ctx is done.
	// If metadata is provided, attempts to preserve mode bits and modification time.
	Write(ctx context.Context, path string, reader io.Reader, mode WriteMode, metadata os.FileInfo) (int64, error)

	// Delete removes a file or an empty directory
	Delete(ctx context.Context, path string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Rename moves an entry, replacing whatever is at the new path
	Rename(ctx context.Context, from, to string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}
