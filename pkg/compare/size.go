package compare

import (
	"context"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// SizeComparator trusts the recorded sizes and never reads content
type SizeComparator struct{}

// NewSizeComparator creates a new size comparator
func NewSizeComparator() *SizeComparator {
	return &SizeComparator{}
}

// Equal compares the sizes recorded in the descriptors
func (c *SizeComparator) Equal(ctx context.Context, source, dest storage.Backend, src, dst *models.Descriptor) bool {
	return src.Size == dst.Size
}

// Name returns the comparator name
func (c *SizeComparator) Name() string {
	return "size"
}
