package sign

import (
	"crypto/ed25519"
	"errors"
)

var errEd25519Sign = errors.New("sign: ed25519 signing failed")

// signEd25519 signs payload with a 32-byte seed or 64-byte expanded key.
func signEd25519(privRaw, payload []byte) ([]byte, error) {
	var priv ed25519.PrivateKey
	switch len(privRaw) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(privRaw)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(privRaw)
	default:
		return nil, ErrKeySize
	}
	sig := ed25519.Sign(priv, payload)
	if len(sig) != ed25519.SignatureSize {
		return nil, errEd25519Sign
	}
	return sig, nil
}

// verifyEd25519 checks sig over payload using a 32-byte public key.
func verifyEd25519(pubRaw, payload, sig []byte) bool {
	if len(pubRaw) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubRaw), payload, sig)
}
