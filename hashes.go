package tdfcore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamperdoc/tdfcore/merkle"
)

// hashesMagic identifies the binary `hashes` record format (spec §6.1).
var hashesMagic = [4]byte{'T', 'D', 'F', 'H'}

const hashesVersion = 1

// algorithm tags for the binary hashes record, stable across versions
// regardless of how merkle.Algorithm's string form might evolve.
var algorithmTags = map[merkle.Algorithm]byte{
	merkle.SHA256:  1,
	merkle.BLAKE3:  2,
	merkle.SHA3256: 3,
	merkle.SHA3512: 4,
}

var algorithmByTag = func() map[byte]merkle.Algorithm {
	m := make(map[byte]merkle.Algorithm, len(algorithmTags))
	for algo, tag := range algorithmTags {
		m[tag] = algo
	}
	return m
}()

var (
	// ErrHashesMagic is returned when a `hashes` component doesn't start
	// with the expected magic bytes.
	ErrHashesMagic = errors.New("tdfcore: hashes record has invalid magic")
	// ErrHashesVersion is returned for an unrecognized hashes record version.
	ErrHashesVersion = errors.New("tdfcore: hashes record has unsupported version")
	// ErrHashesTruncated is returned when the record is shorter than its
	// own declared leaf count implies.
	ErrHashesTruncated = errors.New("tdfcore: hashes record truncated")
)

// EncodeHashes serializes the `hashes` component: magic, version, algorithm
// tag, leaf count, root, then the ordered leaf hashes (spec §6.1). Leaf
// bytes are included for independent inspection only — a verifier must
// still recompute them, never trust them (spec §6.1, §4.2).
func EncodeHashes(algo merkle.Algorithm, root []byte, leaves [][]byte) ([]byte, error) {
	tag, ok := algorithmTags[algo]
	if !ok {
		return nil, merkle.ErrAlgoUnsupported
	}
	if len(leaves) > 1<<32-1 {
		return nil, fmt.Errorf("tdfcore: leaf count overflows 32-bit field")
	}

	leafSize, err := merkle.OutputSize(algo)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 4+1+1+4+len(root)+len(leaves)*leafSize)
	buf = append(buf, hashesMagic[:]...)
	buf = append(buf, hashesVersion, tag)

	count := make([]byte, 4)
	binary.BigEndian.PutUint32(count, uint32(len(leaves)))
	buf = append(buf, count...)

	buf = append(buf, root...)
	for _, l := range leaves {
		buf = append(buf, l...)
	}
	return buf, nil
}

// DecodedHashes is the parsed form of a `hashes` component.
type DecodedHashes struct {
	Algorithm merkle.Algorithm
	Root      []byte
	Leaves    [][]byte
}

// DecodeHashes parses a `hashes` component's binary form.
func DecodeHashes(data []byte) (DecodedHashes, error) {
	if len(data) < 4+1+1+4 {
		return DecodedHashes{}, ErrHashesTruncated
	}
	if data[0] != hashesMagic[0] || data[1] != hashesMagic[1] || data[2] != hashesMagic[2] || data[3] != hashesMagic[3] {
		return DecodedHashes{}, ErrHashesMagic
	}
	version := data[4]
	if version != hashesVersion {
		return DecodedHashes{}, ErrHashesVersion
	}
	tag := data[5]
	algo, ok := algorithmByTag[tag]
	if !ok {
		return DecodedHashes{}, merkle.ErrAlgoUnsupported
	}
	leafSize, err := merkle.OutputSize(algo)
	if err != nil {
		return DecodedHashes{}, err
	}

	count := binary.BigEndian.Uint32(data[6:10])
	offset := 10
	if len(data) < offset+leafSize {
		return DecodedHashes{}, ErrHashesTruncated
	}
	root := data[offset : offset+leafSize]
	offset += leafSize

	needed := offset + int(count)*leafSize
	if needed < offset || len(data) < needed {
		return DecodedHashes{}, ErrHashesTruncated
	}

	leaves := make([][]byte, count)
	for i := 0; i < int(count); i++ {
		leaves[i] = data[offset : offset+leafSize]
		offset += leafSize
	}

	return DecodedHashes{Algorithm: algo, Root: root, Leaves: leaves}, nil
}
