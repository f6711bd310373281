package tdfcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamperdoc/tdfcore/internal/codec"
)

func TestNewManifestPopulatesIdentityFields(t *testing.T) {
	m := NewManifest("Title", "en", []string{"Alice"})
	assert.Equal(t, SchemaVersion, m.SchemaVersion)
	assert.NotEmpty(t, m.DocumentID)
	assert.Equal(t, "Title", m.Title)
	assert.Equal(t, m.CreatedAt, m.ModifiedAt)
	assert.NotContains(t, m.CreatedAt, ":") // canonical encoding is colon-free
}

func TestWithSentinelRootPreservesAlgorithmOnly(t *testing.T) {
	m := NewManifest("T", "en", nil)
	m.Integrity = IntegrityBlock{Algorithm: "sha-256", Root: "deadbeef"}
	cp := m.withSentinelRoot()
	assert.Equal(t, "sha-256", cp.Integrity.Algorithm)
	assert.Equal(t, rootSentinel, cp.Integrity.Root)
	assert.Equal(t, "deadbeef", m.Integrity.Root, "original manifest must not be mutated")
}

func TestMarshalManifestRoundTrip(t *testing.T) {
	cborCodec, err := codec.NewCBORCodec(1<<20, 32)
	require.NoError(t, err)

	m := NewManifest("Roundtrip", "en", []string{"Bob"})
	m.Integrity = IntegrityBlock{Algorithm: "sha-256", Root: rootSentinel}

	data, err := MarshalManifest(cborCodec, m)
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, cborCodec.DecodeInto(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestSentinelRootNeverMatchesAHashOutputLength(t *testing.T) {
	// The sentinel must never be confusable with any supported algorithm's
	// hex-encoded root, or a builder could accidentally treat a real root
	// as the placeholder.
	assert.NotEqual(t, 64, len(rootSentinel)) // sha-256 hex length
	assert.NotEqual(t, 128, len(rootSentinel)) // sha3-512 hex length
}
