// Package cose wraps veraison/go-cose into the narrow shape the core needs
// for optional authority proofs: a timestamp authority attesting to a
// signing instant, or an authority signing a revocation list (spec §1,
// §4.4 Timestamp.AuthorityProof, §4.5 "Revocation lists may themselves be
// signed"). These are externally produced artifacts the core only
// validates — it never issues them.
//
// Adapted from massifs/cose/cose.go's CoseSign1Message wrapper, trimmed to
// ES256 (the only algorithm an authority proof needs here) and without the
// teacher's CWT/DID/RSA machinery, which served MMR checkpoint receipts
// that have no analogue in this domain (see DESIGN.md).
package cose

import (
	"crypto/ecdsa"
	"errors"
	"io"

	"github.com/veraison/go-cose"
)

// ErrNoProtectedClaims is returned when an Envelope's protected header is
// missing the authority claims this package expects.
var ErrNoProtectedClaims = errors.New("cose: protected header has no authority claims")

// Envelope wraps a COSE_Sign1 message carrying an authority proof.
type Envelope struct {
	*cose.Sign1Message
}

// New wraps a fresh Sign1Message carrying payload, ready for SignES256.
func New(payload []byte) *Envelope {
	return &Envelope{Sign1Message: &cose.Sign1Message{
		Headers: cose.Headers{Protected: make(cose.ProtectedHeader)},
		Payload: payload,
	}}
}

// Marshal encodes the envelope to CBOR.
func (e *Envelope) Marshal() ([]byte, error) {
	return e.Sign1Message.MarshalCBOR()
}

// Unmarshal decodes a CBOR COSE_Sign1 message into a fresh Envelope.
func Unmarshal(data []byte) (*Envelope, error) {
	msg := new(cose.Sign1Message)
	if err := msg.UnmarshalCBOR(data); err != nil {
		return nil, err
	}
	return &Envelope{Sign1Message: msg}, nil
}

// SignES256 signs the envelope's payload (already set by the caller on
// Sign1Message.Payload) with an ECDSA P-256 key and the given external
// AAD (commonly the canonical signing payload this proof authenticates).
func (e *Envelope) SignES256(rand io.Reader, external []byte, key *ecdsa.PrivateKey) error {
	signer, err := cose.NewSigner(cose.AlgorithmES256, key)
	if err != nil {
		return err
	}
	if e.Headers.Protected == nil {
		e.Headers.Protected = make(cose.ProtectedHeader)
	}
	e.Headers.Protected[cose.HeaderLabelAlgorithm] = cose.AlgorithmES256
	return e.Sign(rand, external, signer)
}

// VerifyES256 verifies the envelope against an authority's P-256 public
// key and the same external AAD used at signing time.
func (e *Envelope) VerifyES256(pub *ecdsa.PublicKey, external []byte) error {
	verifier, err := cose.NewVerifier(cose.AlgorithmES256, pub)
	if err != nil {
		return err
	}
	return e.Verify(external, verifier)
}
