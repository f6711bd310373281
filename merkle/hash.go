// Package merkle implements the domain-separated Merkle commitment over a
// component set (spec §3.4, §4.2). Leaf and internal hashing is grounded on
// the teacher's massifs/mmr hashWriteUint64 big-endian framing convention,
// generalized across algorithms and re-cast as HMAC-based domain separation
// instead of plain positional hashing, because the MMR's append-only
// accumulator shape itself does not apply here (see DESIGN.md).
package merkle

import (
	"crypto/sha256"
	"errors"
	"hash"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Algorithm identifies one of the hash functions a commitment may use.
type Algorithm string

const (
	SHA256  Algorithm = "sha-256"
	BLAKE3  Algorithm = "blake3"
	SHA3256 Algorithm = "sha3-256"
	SHA3512 Algorithm = "sha3-512"

	// DefaultAlgorithm is used when a manifest or policy does not name one.
	DefaultAlgorithm = SHA256
)

// ErrAlgoUnsupported is returned for any algorithm identifier outside the
// closed set above (spec §4.2 failure modes).
var ErrAlgoUnsupported = errors.New("merkle: unsupported hash algorithm")

// newHasher returns a fresh hash.Hash for the given algorithm.
func newHasher(a Algorithm) (func() hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New, nil
	case BLAKE3:
		return func() hash.Hash { return blake3.New(32, nil) }, nil
	case SHA3256:
		return sha3.New256, nil
	case SHA3512:
		return sha3.New512, nil
	default:
		return nil, ErrAlgoUnsupported
	}
}

// OutputSize returns the digest size in bytes for the given algorithm,
// without allocating a hasher.
func OutputSize(a Algorithm) (int, error) {
	switch a {
	case SHA256, BLAKE3, SHA3256:
		return 32, nil
	case SHA3512:
		return 64, nil
	default:
		return 0, ErrAlgoUnsupported
	}
}

// IsSupported reports whether a is one of the four algorithms the
// commitment construction recognizes.
func IsSupported(a Algorithm) bool {
	_, err := OutputSize(a)
	return err == nil
}
