package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Excluder decides which entries a walk skips.
// Patterns support:
//   - basename globs: *.tmp, .DS_Store
//   - directory patterns: .git/, node_modules/
//   - path patterns: build/*, docs/*.md, build/**/cache
//   - any-depth patterns: **/cache, **/test/*
type Excluder struct {
	patterns []pattern
}

type pattern struct {
	glob     string
	dirOnly  bool
	basename bool
}

// ValidatePatterns reports the first malformed exclude pattern
func ValidatePatterns(patterns []string) error {
	for _, raw := range patterns {
		glob, _ := normalize(raw)
		if glob != "" && !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("invalid exclude pattern %q", raw)
		}
	}
	return nil
}

// NewExcluder compiles the given patterns, ignoring empty ones.
// Patterns are expected to have passed ValidatePatterns.
func NewExcluder(patterns []string) *Excluder {
	e := &Excluder{}
	for _, raw := range patterns {
		glob, dirOnly := normalize(raw)
		if glob == "" {
			continue
		}
		e.patterns = append(e.patterns, pattern{
			glob:     glob,
			dirOnly:  dirOnly,
			basename: !strings.Contains(glob, "/"),
		})
	}
	return e
}

func normalize(raw string) (glob string, dirOnly bool) {
	glob = filepath.ToSlash(strings.TrimSpace(raw))
	if strings.HasSuffix(glob, "/") {
		dirOnly = true
		glob = strings.TrimRight(glob, "/")
	}
	return glob, dirOnly
}

// Empty reports whether no pattern was configured
func (e *Excluder) Empty() bool {
	return e == nil || len(e.patterns) == 0
}

// Match reports whether the entry at relativePath must be skipped
func (e *Excluder) Match(relativePath string, isDir bool) bool {
	if e.Empty() {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	base := normalized[strings.LastIndex(normalized, "/")+1:]

	for _, p := range e.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		name := normalized
		if p.basename {
			name = base
		}
		if ok, err := doublestar.Match(p.glob, name); err == nil && ok {
			return true
		}
	}
	return false
}
