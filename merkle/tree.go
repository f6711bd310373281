package merkle

import (
	"crypto/hmac"
	"errors"
	"hash"
	"sort"

	"github.com/tamperdoc/tdfcore/internal/security"
)

// Fixed tag keys used as HMAC keys for domain separation between leaf,
// internal, and single-child-promotion nodes (spec §4.2). These are not
// secrets; they are constants baked into the wire contract, the same way
// the teacher's rootsigner.go bakes CBOR tag numbers into MMRState.
var (
	tagLeaf     = []byte("TDF-MERKLE-LEAF-V1")
	tagInternal = []byte("TDF-MERKLE-NODE-V1")
	tagSingle   = []byte("TDF-MERKLE-SOLO-V1")
)

// ErrTooManyNodes bounds recompute cost against pathological component sets
// (spec §4.2 "recompute time must be bounded").
var ErrTooManyNodes = errors.New("merkle: component count exceeds recompute budget")

// ErrIntegrity is returned when a claimed root does not match the
// recomputed root.
var ErrIntegrity = errors.New("merkle: claimed root does not match recomputed root")

// Leaf is one named component going into the tree: its sorted path and its
// exact serialized bytes.
type Leaf struct {
	Path  string
	Bytes []byte
}

// Component pairs a path with content, the caller-facing input to Build.
type Component = Leaf

// Tree holds a built commitment: the algorithm used, the final root, and
// the leaf hashes in sorted-path order (not the raw leaf bytes — those are
// not retained, since spec §6.1 treats a hashes record's leaf bytes as
// untrusted and recomputed from the archive, not from this structure).
type Tree struct {
	Algorithm  Algorithm
	Root       []byte
	LeafHashes [][]byte
}

// Build computes the domain-separated commitment root over components,
// per spec §4.2 steps 1-4. components need not be pre-sorted; Build sorts
// a copy by Path before hashing.
func Build(algo Algorithm, components []Component, maxNodes int) (Tree, error) {
	newHash, err := newHasher(algo)
	if err != nil {
		return Tree{}, err
	}
	if len(components) > maxNodes {
		return Tree{}, ErrTooManyNodes
	}

	sorted := make([]Component, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	level := make([][]byte, len(sorted))
	for i, c := range sorted {
		level[i] = leafHash(newHash, c.Path, c.Bytes)
	}
	leafHashes := make([][]byte, len(level))
	copy(leafHashes, level)

	root, err := levelUp(newHash, level, maxNodes)
	if err != nil {
		return Tree{}, err
	}
	return Tree{Algorithm: algo, Root: root, LeafHashes: leafHashes}, nil
}

// Verify recomputes the root over components and compares it to claimedRoot
// using a constant-time comparison (spec §4.2 "Verification", §4.5).
func Verify(algo Algorithm, components []Component, claimedRoot []byte, maxNodes int) error {
	t, err := Build(algo, components, maxNodes)
	if err != nil {
		return err
	}
	if !security.ConstantTimeEqual(t.Root, claimedRoot) {
		return ErrIntegrity
	}
	return nil
}

// leafHash computes HMAC_K_leaf(H, path || 0x00 || bytes) (spec §4.2 step 2).
func leafHash(newHash func() hash.Hash, path string, content []byte) []byte {
	mac := hmac.New(newHash, tagLeaf)
	mac.Write([]byte(path))
	mac.Write([]byte{0x00})
	mac.Write(content)
	return mac.Sum(nil)
}

// internalHash computes HMAC_K_internal(H, left || right) (spec §4.2 step 3).
func internalHash(newHash func() hash.Hash, left, right []byte) []byte {
	mac := hmac.New(newHash, tagInternal)
	mac.Write(left)
	mac.Write(right)
	return mac.Sum(nil)
}

// singleHash computes HMAC_K_single(H, node) for an odd tail promotion
// (spec §4.2 step 3, "not duplicated").
func singleHash(newHash func() hash.Hash, node []byte) []byte {
	mac := hmac.New(newHash, tagSingle)
	mac.Write(node)
	return mac.Sum(nil)
}

// levelUp repeatedly pairs and hashes a level until one node — the root —
// remains. An empty input level yields a single-child promotion of a
// zero-length preimage, so an empty component set still has a well-defined
// root rather than a special-cased nil.
func levelUp(newHash func() hash.Hash, level [][]byte, maxNodes int) ([]byte, error) {
	ops := 0
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, internalHash(newHash, level[i], level[i+1]))
			ops++
			if ops > maxNodes {
				return nil, ErrTooManyNodes
			}
		}
		if len(level)%2 == 1 {
			next = append(next, singleHash(newHash, level[len(level)-1]))
			ops++
			if ops > maxNodes {
				return nil, ErrTooManyNodes
			}
		}
		level = next
	}
	if len(level) == 0 {
		return singleHash(newHash, nil), nil
	}
	return level[0], nil
}
