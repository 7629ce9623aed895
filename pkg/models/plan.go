package models

import "sort"

// Pair links a source descriptor with a destination descriptor.
// For modifications both sides share the same relative path; for moves
// Dest is the old location and Source the new one.
type Pair struct {
	Source *Descriptor
	Dest   *Descriptor
}

// ContentOnly reports whether the pair differs by content but not by size
func (p Pair) ContentOnly() bool {
	return p.Source.Size == p.Dest.Size
}

// Plan is the classified difference between two snapshots.
// Unchanged entries are implicit and not recorded.
type Plan struct {
	Added    []*Descriptor
	Deleted  []*Descriptor
	Modified []Pair
	Moved    []Pair
}

// Empty reports whether the plan holds no differences
func (p *Plan) Empty() bool {
	return len(p.Added) == 0 && len(p.Deleted) == 0 && len(p.Modified) == 0 && len(p.Moved) == 0
}

// Len returns the total number of planned entries
func (p *Plan) Len() int {
	return len(p.Added) + len(p.Deleted) + len(p.Modified) + len(p.Moved)
}

// Sort orders every category by relative path. Modified pairs sort by
// their shared path, moved pairs by their old (destination) path.
func (p *Plan) Sort() {
	SortDescriptors(p.Added)
	SortDescriptors(p.Deleted)
	sort.Slice(p.Modified, func(i, j int) bool {
		return p.Modified[i].Source.RelativePath < p.Modified[j].Source.RelativePath
	})
	sort.Slice(p.Moved, func(i, j int) bool {
		return p.Moved[i].Dest.RelativePath < p.Moved[j].Dest.RelativePath
	})
}
