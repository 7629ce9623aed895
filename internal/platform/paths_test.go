package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "c"), NormalizePath(filepath.Join("a", "b", "..", "c")))
	assert.Equal(t, "a", NormalizePath("a/"))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	resolved, err := Resolve(filepath.Join(dir, "x", ".."))
	require.NoError(t, err)
	assert.Equal(t, dir, resolved)

	_, err = Resolve("")
	var pathErr *PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestContains(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data")

	tests := []struct {
		name   string
		parent string
		child  string
		want   bool
	}{
		{"Child", root, filepath.Join(root, "sub"), true},
		{"Deep", root, filepath.Join(root, "a", "b"), true},
		{"Same", root, root, false},
		{"Sibling", root, filepath.Join(string(filepath.Separator), "database"), false},
		{"Parent", filepath.Join(root, "sub"), root, false},
		{"DotDotPrefixedName", root, filepath.Join(root, "..data"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.parent, tt.child))
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.Error(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("/tmp/x"))
}
