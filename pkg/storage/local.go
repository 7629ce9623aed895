package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Billy is a Backend on top of a go-billy filesystem
type Billy struct {
	fs    billy.Filesystem
	root  string
	local bool
}

// NewLocal creates a backend rooted at a directory of the local filesystem
func NewLocal(rootPath string) (*Billy, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Billy{fs: osfs.New(absPath), root: absPath, local: true}, nil
}

// NewMemory creates an empty in-memory backend
func NewMemory(name string) *Billy {
	return &Billy{fs: memfs.New(), root: name}
}

// NewBilly wraps an existing billy filesystem
func NewBilly(fs billy.Filesystem, root string) *Billy {
	return &Billy{fs: fs, root: root}
}

// Filesystem returns the underlying billy filesystem
func (b *Billy) Filesystem() billy.Filesystem {
	return b.fs
}

// Root returns the root path of the backend
func (b *Billy) Root() string {
	return b.root
}

// ReadDir lists a directory without following symbolic links
func (b *Billy) ReadDir(ctx context.Context, path string) ([]os.FileInfo, error) {
	entries, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	return entries, nil
}

// Stat returns file metadata
func (b *Billy) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return info, nil
}

// Read opens a file for reading
func (b *Billy) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := b.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Write creates or overwrites a file. Overwrite removes the existing file
// and creates a new one, so a read-only target is replaced like any other.
func (b *Billy) Write(ctx context.Context, path string, reader io.Reader, mode WriteMode, metadata os.FileInfo) (written int64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if mode == Overwrite {
		if err := b.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("failed to replace file: %w", err)
		}
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL

	perm := filePerm
	if metadata != nil {
		perm = metadata.Mode().Perm()
	}

	if err := b.ensureParent(path); err != nil {
		return 0, err
	}

	file, err := b.fs.OpenFile(path, flags, perm)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	written, err = io.Copy(file, reader)
	if err != nil {
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	if metadata != nil {
		if err := b.preserve(path, metadata); err != nil {
			return written, err
		}
	}

	return written, nil
}

// preserve copies mode bits and modification time when the filesystem allows it
func (b *Billy) preserve(path string, metadata os.FileInfo) error {
	mode := metadata.Mode().Perm()
	mtime := metadata.ModTime()

	if b.local {
		full := filepath.Join(b.root, path)
		if err := os.Chmod(full, mode); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
		if !mtime.IsZero() {
			if err := os.Chtimes(full, mtime, mtime); err != nil {
				return fmt.Errorf("failed to set modification time: %w", err)
			}
		}
		return nil
	}

	change, ok := b.fs.(billy.Change)
	if !ok {
		return nil
	}
	if err := change.Chmod(path, mode); err != nil && !errors.Is(err, billy.ErrNotSupported) {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if !mtime.IsZero() {
		if err := change.Chtimes(path, mtime, mtime); err != nil && !errors.Is(err, billy.ErrNotSupported) {
			return fmt.Errorf("failed to set modification time: %w", err)
		}
	}
	return nil
}

// Delete removes a file or an empty directory
func (b *Billy) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// MkdirAll creates a directory and all necessary parents
func (b *Billy) MkdirAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.fs.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Rename moves an entry, creating the parent of the new path if needed
func (b *Billy) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.ensureParent(to); err != nil {
		return err
	}
	if err := b.fs.Rename(from, to); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// Exists checks if a file or directory exists
func (b *Billy) Exists(ctx context.Context, path string) (bool, error) {
	_, err := b.fs.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Close releases resources (no-op for billy filesystems)
func (b *Billy) Close() error {
	return nil
}

func (b *Billy) ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := b.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
