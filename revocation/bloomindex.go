// Package revocation implements the revocation evaluator and algorithm /
// signer whitelist policy (spec §4.5).
package revocation

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// bloomDomain tags the fixed-region Bloom filter's double-hash derivation,
// the same construction the teacher's sibling bloom module uses for its
// log-value membership filter, repurposed here from "is this leaf hash
// present" to "has this signer_id possibly been revoked" — a cheap
// pre-check in front of Evaluator's linear scan (spec §4.5 doesn't mandate
// a fast path, but the ordering guarantee in §5 that evaluation must
// terminate quickly under many entries motivates one).
const bloomDomain = 0xB0

var errBadK = errors.New("revocation: bloom k must be >= 1")

// bloomIndex is a single fixed-size bit region with k double-hashed probes
// per element, LSB0 bit ordering — grounded on bloom/bloom4.go's
// BitOrderLSB0 convention and hashPairV1 double hashing, reduced from that
// module's 4-parallel-filter layout to the single filter this fast path
// needs.
type bloomIndex struct {
	bits  []byte
	mBits uint64
	k     uint8
}

func newBloomIndex(expectedElements int, bitsPerElement uint64, k uint8) (*bloomIndex, error) {
	if k == 0 {
		return nil, errBadK
	}
	if expectedElements <= 0 {
		expectedElements = 1
	}
	mBits := bitsPerElement * uint64(expectedElements)
	if mBits == 0 {
		mBits = 64
	}
	bitsetBytes := (mBits + 7) / 8
	return &bloomIndex{bits: make([]byte, bitsetBytes), mBits: mBits, k: k}, nil
}

func (b *bloomIndex) insert(elem []byte) {
	h1, h2 := hashPair(elem)
	setBitsLSB0(b.bits, b.mBits, b.k, h1, h2)
}

func (b *bloomIndex) maybeContains(elem []byte) bool {
	h1, h2 := hashPair(elem)
	return testBitsLSB0(b.bits, b.mBits, b.k, h1, h2)
}

// hashPair derives two independent-enough hash values from a single
// SHA-256 digest, per bloom/bloom4.go's hashPairV1 (Kirsch-Mitzenmacher
// double hashing: probe_i = h1 + i*h2 mod mBits).
func hashPair(elem []byte) (h1, h2 uint64) {
	buf := make([]byte, 1+len(elem))
	buf[0] = bloomDomain
	copy(buf[1:], elem)
	sum := sha256.Sum256(buf)
	h1 = binary.BigEndian.Uint64(sum[0:8])
	h2 = binary.BigEndian.Uint64(sum[8:16])
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

func setBitsLSB0(bitset []byte, mBits uint64, k uint8, h1, h2 uint64) {
	for i := uint8(0); i < k; i++ {
		bit := (h1 + uint64(i)*h2) % mBits
		bitset[bit/8] |= 1 << (bit % 8)
	}
}

func testBitsLSB0(bitset []byte, mBits uint64, k uint8, h1, h2 uint64) bool {
	for i := uint8(0); i < k; i++ {
		bit := (h1 + uint64(i)*h2) % mBits
		if bitset[bit/8]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// signerElement hashes a signer_id string into the fixed-width element
// the bloom filter's hash pair expects.
func signerElement(signerID string) []byte {
	h := sha256.Sum256([]byte(signerID))
	return h[:]
}
