package models

import (
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor identifies one filesystem entry relative to its tree root.
// Descriptors are created during a snapshot walk and never modified afterwards.
type Descriptor struct {
	// Root is the tree root the entry was found under
	Root string

	// RelativePath is the path relative to Root, using the platform separator
	RelativePath string

	// Size in bytes, always 0 for directories
	Size int64

	// IsDir indicates if this is a directory
	IsDir bool
}

// NewDescriptor creates a descriptor, forcing the size of directories to zero
func NewDescriptor(root, relativePath string, size int64, isDir bool) *Descriptor {
	if isDir {
		size = 0
	}
	return &Descriptor{
		Root:         root,
		RelativePath: relativePath,
		Size:         size,
		IsDir:        isDir,
	}
}

// Kind returns "D" for directories and "F" for everything else
func (d *Descriptor) Kind() string {
	if d.IsDir {
		return "D"
	}
	return "F"
}

// Depth returns the number of path components below the root
func (d *Descriptor) Depth() int {
	return strings.Count(filepath.ToSlash(d.RelativePath), "/") + 1
}

// Snapshot maps relative paths to the descriptors found under one root
type Snapshot map[string]*Descriptor

// Paths returns the snapshot keys in lexicographic order
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Counts returns the number of files and directories in the snapshot
func (s Snapshot) Counts() (files, dirs int) {
	for _, d := range s {
		if d.IsDir {
			dirs++
		} else {
			files++
		}
	}
	return files, dirs
}

// SortDescriptors orders descriptors by relative path
func SortDescriptors(ds []*Descriptor) {
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].RelativePath < ds[j].RelativePath
	})
}
