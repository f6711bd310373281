package tdfcore

import (
	"time"

	"github.com/google/uuid"
	"github.com/tamperdoc/tdfcore/sign"
)

// SchemaVersion identifies the manifest/content schema generation (spec §3.3
// "Polymorphism... adding a variant requires a schema_version bump" and §9
// "Manifest self-reference formulation... must be documented in the schema
// version"). Version 1 fixes sentinel substitution (not two-pass
// re-serialization) for the manifest self-reference, and RFC3339Nano for
// the canonical timestamp.
const SchemaVersion = 1

// rootSentinel is the fixed placeholder the manifest's integrity root holds
// while its own leaf hash is computed (spec §4.2 "Manifest self-reference",
// §9 "sentinel-substitution formulation"). Its length matches no supported
// hash's hex encoding, by construction, so a builder can never accidentally
// treat a real root as the sentinel.
const rootSentinel = "0000000000000000000000000000000000000000000000000000000000000000SENTINEL"

// IntegrityBlock carries the commitment algorithm and root (spec §3.2).
type IntegrityBlock struct {
	Algorithm string `cbor:"1,keyasint"`
	Root      string `cbor:"2,keyasint"` // hex-encoded; rootSentinel during leaf hashing
}

// Manifest is the metadata component every document carries (spec §3.2).
// Field tags follow the teacher's keyasint CBOR convention (rootsigner.go's
// MMRState), which keeps the wire encoding compact and stable under field
// renames.
type Manifest struct {
	SchemaVersion  int             `cbor:"1,keyasint"`
	DocumentID     string          `cbor:"2,keyasint"`
	Title          string          `cbor:"3,keyasint"`
	Language       string          `cbor:"4,keyasint"`
	CreatedAt      string          `cbor:"5,keyasint"` // canonical encoded timestamp
	ModifiedAt     string          `cbor:"6,keyasint"`
	Authors        []string        `cbor:"7,keyasint"`
	Classification string          `cbor:"8,keyasint,omitempty"`
	Integrity      IntegrityBlock  `cbor:"9,keyasint"`
}

// NewManifest constructs a Manifest with a fresh document id and
// schema version, timestamps set to now in the canonical encoding.
func NewManifest(title, language string, authors []string) Manifest {
	now := nowCanonical()
	return Manifest{
		SchemaVersion: SchemaVersion,
		DocumentID:    uuid.NewString(),
		Title:         title,
		Language:      language,
		CreatedAt:     now,
		ModifiedAt:    now,
		Authors:       authors,
	}
}

// nowCanonical renders the current instant in the same colon-free encoding
// sign/payload.go uses, so a manifest's own timestamps are directly usable
// as bound timestamps if ever signed themselves.
func nowCanonical() string {
	return sign.CanonicalTimestampEncode(time.Now().UTC().Format(time.RFC3339Nano))
}

// withSentinelRoot returns a copy of m with Integrity.Root replaced by the
// fixed sentinel, for leaf hashing (spec §4.2, §9).
func (m Manifest) withSentinelRoot() Manifest {
	cp := m
	cp.Integrity = IntegrityBlock{Algorithm: m.Integrity.Algorithm, Root: rootSentinel}
	return cp
}

// MarshalManifest serializes m with its CBOR codec, per spec §6.1.
func MarshalManifest(codec cborMarshaler, m Manifest) ([]byte, error) {
	return codec.Marshal(m)
}

// cborMarshaler is the narrow surface this file needs from
// internal/codec.CBORCodec, kept local to avoid a direct dependency cycle
// concern and to make the manifest code testable against a fake.
type cborMarshaler interface {
	Marshal(v any) ([]byte, error)
}
