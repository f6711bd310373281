package tdfcore

import (
	"sort"

	"github.com/tamperdoc/tdfcore/internal/codec"
	"github.com/tamperdoc/tdfcore/merkle"
)

// ComponentSet is the finite path->bytes mapping the commitment is
// computed over (spec §3.1). Paths are validated on insertion; signatures
// are never part of the set, since they bind the commitment over it.
// Grounded on massifs/storage/storagepaths.go's path-building discipline,
// adapted from per-massif blob paths to per-component archive paths.
type ComponentSet struct {
	entries map[string][]byte
}

// NewComponentSet returns an empty set.
func NewComponentSet() *ComponentSet {
	return &ComponentSet{entries: make(map[string][]byte)}
}

// Put validates path and stores bytes under it, replacing any prior value.
func (c *ComponentSet) Put(path string, data []byte) error {
	if err := codec.ValidatePath(path); err != nil {
		return err
	}
	c.entries[path] = data
	return nil
}

// Get returns the bytes at path, if present.
func (c *ComponentSet) Get(path string) ([]byte, bool) {
	b, ok := c.entries[path]
	return b, ok
}

// Has reports whether path is present.
func (c *ComponentSet) Has(path string) bool {
	_, ok := c.entries[path]
	return ok
}

// Paths returns the component paths in sorted order (spec §3.4 step 1:
// "Sort component paths lexicographically").
func (c *ComponentSet) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of components.
func (c *ComponentSet) Len() int { return len(c.entries) }

// Leaves converts the set into merkle.Component inputs, in sorted path
// order, for Build/Verify.
func (c *ComponentSet) Leaves() []merkle.Component {
	paths := c.Paths()
	out := make([]merkle.Component, len(paths))
	for i, p := range paths {
		out[i] = merkle.Component{Path: p, Bytes: c.entries[p]}
	}
	return out
}
