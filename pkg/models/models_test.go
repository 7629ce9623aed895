package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== Descriptor Tests ==============

func TestNewDescriptor(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		d := NewDescriptor("/src", "dir/file.txt", 1024, false)
		assert.Equal(t, "/src", d.Root)
		assert.Equal(t, "dir/file.txt", d.RelativePath)
		assert.Equal(t, int64(1024), d.Size)
		assert.Equal(t, "F", d.Kind())
		assert.Equal(t, 2, d.Depth())
	})

	t.Run("DirectoryHasZeroSize", func(t *testing.T) {
		d := NewDescriptor("/src", "dir", 4096, true)
		assert.Zero(t, d.Size)
		assert.Equal(t, "D", d.Kind())
		assert.Equal(t, 1, d.Depth())
	})
}

func TestSnapshot(t *testing.T) {
	s := Snapshot{
		"b":     NewDescriptor("/r", "b", 1, false),
		"a":     NewDescriptor("/r", "a", 0, true),
		"a/c":   NewDescriptor("/r", "a/c", 3, false),
		"a/sub": NewDescriptor("/r", "a/sub", 0, true),
	}

	assert.Equal(t, []string{"a", "a/c", "a/sub", "b"}, s.Paths())

	files, dirs := s.Counts()
	assert.Equal(t, 2, files)
	assert.Equal(t, 2, dirs)
}

// ============== Plan Tests ==============

func TestPlanSort(t *testing.T) {
	plan := Plan{
		Added:   []*Descriptor{{RelativePath: "z"}, {RelativePath: "a"}},
		Deleted: []*Descriptor{{RelativePath: "m"}, {RelativePath: "b"}},
		Modified: []Pair{
			{Source: &Descriptor{RelativePath: "y"}, Dest: &Descriptor{RelativePath: "y"}},
			{Source: &Descriptor{RelativePath: "c"}, Dest: &Descriptor{RelativePath: "c"}},
		},
		Moved: []Pair{
			{Source: &Descriptor{RelativePath: "a"}, Dest: &Descriptor{RelativePath: "old/z"}},
			{Source: &Descriptor{RelativePath: "z"}, Dest: &Descriptor{RelativePath: "old/a"}},
		},
	}

	plan.Sort()

	assert.Equal(t, "a", plan.Added[0].RelativePath)
	assert.Equal(t, "b", plan.Deleted[0].RelativePath)
	assert.Equal(t, "c", plan.Modified[0].Source.RelativePath)
	assert.Equal(t, "old/a", plan.Moved[0].Dest.RelativePath)
	assert.Equal(t, 8, plan.Len())
	assert.False(t, plan.Empty())
	assert.True(t, (&Plan{}).Empty())
}

func TestPairContentOnly(t *testing.T) {
	same := Pair{Source: &Descriptor{Size: 10}, Dest: &Descriptor{Size: 10}}
	grown := Pair{Source: &Descriptor{Size: 12}, Dest: &Descriptor{Size: 10}}

	assert.True(t, same.ContentOnly())
	assert.False(t, grown.ContentOnly())
}

// ============== DiffOperation Tests ==============

func TestDiffOperationValidate(t *testing.T) {
	valid := DiffOperation{
		SourcePath: "/src",
		DestPath:   "/dst",
		ChunkSize:  16 * 1024,
		MaxWorkers: 4,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(op *DiffOperation)
		field  string
	}{
		{"MissingSource", func(op *DiffOperation) { op.SourcePath = "" }, "SourcePath"},
		{"MissingDest", func(op *DiffOperation) { op.DestPath = "" }, "DestPath"},
		{"NoWorkers", func(op *DiffOperation) { op.MaxWorkers = 0 }, "MaxWorkers"},
		{"TinyChunk", func(op *DiffOperation) { op.ChunkSize = 512 }, "ChunkSize"},
		{"HugeChunk", func(op *DiffOperation) { op.ChunkSize = MaxChunkSize + 1 }, "ChunkSize"},
		{"NegativeBandwidth", func(op *DiffOperation) { op.BandwidthLimit = -1 }, "BandwidthLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := valid
			tt.mutate(&op)

			err := op.Validate()
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

// ============== Status Tests ==============

func TestStatusExitCode(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusFor(nil))
	assert.Equal(t, StatusPartial, StatusFor([]Failure{{Path: "x", Op: OpCopy}}))

	assert.Equal(t, 0, StatusSuccess.ExitCode(true))
	assert.Equal(t, 0, StatusPartial.ExitCode(false))
	assert.Equal(t, 1, StatusPartial.ExitCode(true))
}
