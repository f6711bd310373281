package merkle

import (
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comps(pairs ...string) []Component {
	out := make([]Component, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Component{Path: pairs[i], Bytes: []byte(pairs[i+1])})
	}
	return out
}

func TestBuildDeterministic(t *testing.T) {
	a := comps("b", "beta", "a", "alpha", "c", "gamma")
	t1, err := Build(SHA256, a, 1<<16)
	require.NoError(t, err)
	t2, err := Build(SHA256, a, 1<<16)
	require.NoError(t, err)
	assert.Equal(t, t1.Root, t2.Root)
}

func TestBuildOrderIndependent(t *testing.T) {
	unordered := comps("z", "1", "a", "2", "m", "3")
	reordered := comps("a", "2", "m", "3", "z", "1")
	t1, err := Build(SHA256, unordered, 1<<16)
	require.NoError(t, err)
	t2, err := Build(SHA256, reordered, 1<<16)
	require.NoError(t, err)
	assert.Equal(t, t1.Root, t2.Root)
}

func TestSingleBitSensitivity(t *testing.T) {
	base := comps("a", "alpha", "b", "beta")
	tampered := comps("a", "alpha", "b", "betA")
	t1, err := Build(SHA256, base, 1<<16)
	require.NoError(t, err)
	t2, err := Build(SHA256, tampered, 1<<16)
	require.NoError(t, err)
	assert.NotEqual(t, t1.Root, t2.Root)
}

func TestOddNodePromotionNotDuplication(t *testing.T) {
	// Three leaves: a naive duplicate-the-tail scheme would make this root
	// equal to the root of four leaves where the third is repeated. The
	// promotion tag must prevent that collision.
	three, err := Build(SHA256, comps("a", "1", "b", "2", "c", "3"), 1<<16)
	require.NoError(t, err)

	fourWithDup, err := Build(SHA256, comps("a", "1", "b", "2", "c", "3", "d", "3"), 1<<16)
	require.NoError(t, err)

	assert.NotEqual(t, three.Root, fourWithDup.Root)
}

func TestDomainSeparationLeafVsInternal(t *testing.T) {
	single := comps("only", "x")
	tr, err := Build(SHA256, single, 1<<16)
	require.NoError(t, err)
	// a lone leaf is its own root: level-up only runs while more than one
	// node remains, so the root is the leaf-tagged hash, not a promotion.
	assert.Equal(t, leafHash(newHashFor(t, SHA256), "only", []byte("x")), tr.Root)
}

func newHashFor(t *testing.T, a Algorithm) func() hash.Hash {
	t.Helper()
	h, err := newHasher(a)
	require.NoError(t, err)
	return h
}

func TestVerifyRoundTrip(t *testing.T) {
	set := comps("manifest", "m", "content", "c", "assets/logo", "l")
	tr, err := Build(BLAKE3, set, 1<<16)
	require.NoError(t, err)
	assert.NoError(t, Verify(BLAKE3, set, tr.Root, 1<<16))
}

func TestVerifyRejectsTamperedClaim(t *testing.T) {
	set := comps("manifest", "m", "content", "c")
	tr, err := Build(SHA256, set, 1<<16)
	require.NoError(t, err)
	bogus := append([]byte(nil), tr.Root...)
	bogus[0] ^= 0xFF
	assert.ErrorIs(t, Verify(SHA256, set, bogus, 1<<16), ErrIntegrity)
}

func TestBuildRejectsUnsupportedAlgorithm(t *testing.T) {
	_, err := Build(Algorithm("md5"), comps("a", "1"), 1<<16)
	assert.ErrorIs(t, err, ErrAlgoUnsupported)
}

func TestBuildRejectsOversizedComponentSet(t *testing.T) {
	_, err := Build(SHA256, comps("a", "1", "b", "2", "c", "3"), 2)
	assert.ErrorIs(t, err, ErrTooManyNodes)
}

func TestEmptyComponentSetHasWellDefinedRoot(t *testing.T) {
	t1, err := Build(SHA256, nil, 1<<16)
	require.NoError(t, err)
	t2, err := Build(SHA256, nil, 1<<16)
	require.NoError(t, err)
	assert.Equal(t, t1.Root, t2.Root)
	assert.NotEmpty(t, t1.Root)
}
