package tdfcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentSetPutGetHas(t *testing.T) {
	cs := NewComponentSet()
	require.NoError(t, cs.Put("manifest", []byte("m")))
	assert.True(t, cs.Has("manifest"))
	b, ok := cs.Get("manifest")
	require.True(t, ok)
	assert.Equal(t, []byte("m"), b)
	assert.Equal(t, 1, cs.Len())
}

func TestComponentSetRejectsInvalidPath(t *testing.T) {
	cs := NewComponentSet()
	assert.Error(t, cs.Put("../escape", []byte("x")))
	assert.Error(t, cs.Put("", []byte("x")))
}

func TestComponentSetPathsAreSorted(t *testing.T) {
	cs := NewComponentSet()
	require.NoError(t, cs.Put("zeta", []byte("z")))
	require.NoError(t, cs.Put("alpha", []byte("a")))
	require.NoError(t, cs.Put("mid", []byte("m")))
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, cs.Paths())
}

func TestComponentSetLeavesMatchSortedPaths(t *testing.T) {
	cs := NewComponentSet()
	require.NoError(t, cs.Put("b", []byte("2")))
	require.NoError(t, cs.Put("a", []byte("1")))
	leaves := cs.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "a", leaves[0].Path)
	assert.Equal(t, "b", leaves[1].Path)
}

func TestComponentSetPutReplacesExistingEntry(t *testing.T) {
	cs := NewComponentSet()
	require.NoError(t, cs.Put("manifest", []byte("first")))
	require.NoError(t, cs.Put("manifest", []byte("second")))
	b, _ := cs.Get("manifest")
	assert.Equal(t, []byte("second"), b)
	assert.Equal(t, 1, cs.Len())
}
