package compare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// ChecksumComparator reads both files in lock-step, chunk by chunk, and keeps
// one running xxhash digest per file. The digests are compared after every
// chunk so the first differing chunk ends the comparison.
type ChecksumComparator struct {
	chunkSize  int
	bufferPool *sync.Pool
	collector  *logging.Collector
}

// NewChecksumComparator creates a comparator reading chunkSize bytes at a time,
// clamped to [models.MinChunkSize, models.MaxChunkSize].
// Failures are recorded on collector; a nil collector discards them.
func NewChecksumComparator(chunkSize int, collector *logging.Collector) *ChecksumComparator {
	if chunkSize < models.MinChunkSize {
		chunkSize = models.MinChunkSize
	}
	if chunkSize > models.MaxChunkSize {
		chunkSize = models.MaxChunkSize
	}
	if collector == nil {
		collector = logging.NewCollector(nil)
	}
	return &ChecksumComparator{
		chunkSize: chunkSize,
		collector: collector,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// ChunkSize returns the number of bytes read per step
func (c *ChecksumComparator) ChunkSize() int {
	return c.chunkSize
}

// Equal reports whether both files are byte-for-byte identical
func (c *ChecksumComparator) Equal(ctx context.Context, source, dest storage.Backend, src, dst *models.Descriptor) bool {
	equal, err := c.compare(ctx, source, dest, src.RelativePath, dst.RelativePath)
	if err != nil {
		c.collector.Fail(ctx, models.OpCompare, src.RelativePath, err)
		return false
	}
	return equal
}

func (c *ChecksumComparator) compare(ctx context.Context, source, dest storage.Backend, sourcePath, destPath string) (bool, error) {
	sourceReader, err := source.Read(ctx, sourcePath)
	if err != nil {
		return false, fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceReader.Close()

	destReader, err := dest.Read(ctx, destPath)
	if err != nil {
		return false, fmt.Errorf("failed to open destination file %s: %w", destPath, err)
	}
	defer destReader.Close()

	sourceBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(sourceBufPtr)
	sourceBuf := *sourceBufPtr

	destBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(destBufPtr)
	destBuf := *destBufPtr

	sourceDigest := xxhash.New()
	destDigest := xxhash.New()

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		sourceN, sourceErr := io.ReadFull(sourceReader, sourceBuf)
		sourceDone := isEOF(sourceErr)
		if sourceErr != nil && !sourceDone {
			return false, fmt.Errorf("failed to read source file: %w", sourceErr)
		}

		if sourceN > 0 {
			destN, destErr := io.ReadFull(destReader, destBuf[:sourceN])
			if isEOF(destErr) {
				// destination ran out first
				return false, nil
			}
			if destErr != nil {
				return false, fmt.Errorf("failed to read destination file %s: %w", destPath, destErr)
			}

			_, _ = sourceDigest.Write(sourceBuf[:sourceN])
			_, _ = destDigest.Write(destBuf[:destN])
			if sourceDigest.Sum64() != destDigest.Sum64() {
				return false, nil
			}
		}

		if sourceDone {
			break
		}
	}

	// The source is exhausted; the destination must be too.
	n, err := io.ReadFull(destReader, destBuf[:1])
	if n > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read destination file %s: %w", destPath, err)
	}
	return true, nil
}

// Name returns the comparator name
func (c *ChecksumComparator) Name() string {
	return "checksum"
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
