package compare

import (
	"context"

	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// Comparator decides whether two file descriptors hold the same content.
// Implementations never return an error: I/O problems count as a difference
// and are recorded by the comparator itself.
type Comparator interface {
	// Equal reports whether src (under source) and dst (under dest) are equal
	Equal(ctx context.Context, source, dest storage.Backend, src, dst *models.Descriptor) bool

	// Name returns the name of the comparison method
	Name() string
}

// For returns the comparator matching a run configuration: a checksum
// comparator in strict mode, a size comparator otherwise
func For(op models.DiffOperation, collector *logging.Collector) Comparator {
	if op.Strict {
		return NewChecksumComparator(op.ChunkSize, collector)
	}
	return NewSizeComparator()
}
