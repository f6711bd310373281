package sign

import (
	"errors"

	"github.com/tamperdoc/tdfcore/internal/security"
)

// Algorithm identifies a supported signature scheme (spec §4.4).
type Algorithm string

const (
	Ed25519    Algorithm = "ed25519"
	Secp256k1  Algorithm = "secp256k1-ecdsa"
	DefaultAlgorithm = Ed25519
)

// ErrAlgoUnsupported is returned for a scheme outside the closed set above.
var ErrAlgoUnsupported = errors.New("sign: unsupported signature algorithm")

// ErrKeySize is returned when a private or public key has the wrong byte
// length for its declared algorithm.
var ErrKeySize = errors.New("sign: key has wrong size for algorithm")

// PrivateKey wraps raw signing key bytes in a zeroizing scoped container
// (spec §4.4 "Key material", §5 "Key lifetime"). Callers construct one at
// the call site and must Release it once the sign call returns, on every
// exit path.
type PrivateKey struct {
	Algorithm Algorithm
	scoped    *security.ScopedBytes
}

// NewPrivateKey copies raw into a zeroizing container tagged with algo.
// The caller retains ownership of raw; NewPrivateKey does not clear it.
func NewPrivateKey(algo Algorithm, raw []byte) (*PrivateKey, error) {
	if err := checkPrivateKeySize(algo, len(raw)); err != nil {
		return nil, err
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return &PrivateKey{Algorithm: algo, scoped: security.NewScopedBytes(cp)}, nil
}

// Bytes exposes the raw key for the duration of a single signing call.
// Callers must not retain the returned slice past that call.
func (k *PrivateKey) Bytes() []byte { return k.scoped.Bytes() }

// Release zeroizes the key material. Idempotent; safe to call on every
// exit path including panics via defer.
func (k *PrivateKey) Release() { k.scoped.Release() }

func checkPrivateKeySize(algo Algorithm, n int) error {
	switch algo {
	case Ed25519:
		if n != 32 && n != 64 { // seed or expanded form
			return ErrKeySize
		}
	case Secp256k1:
		if n != 32 {
			return ErrKeySize
		}
	default:
		return ErrAlgoUnsupported
	}
	return nil
}

// PublicKey is a verification key resolved for a given signer_id (spec
// §4.4 "Key resolution").
type PublicKey struct {
	Algorithm Algorithm
	Raw       []byte
}
