package sign

import (
	"errors"
	"fmt"

	"github.com/tamperdoc/tdfcore/internal/security"
)

// Scope names what a signature covers: the whole document, content only, or
// an explicit list of section ids (spec §3.5 Signatures).
type Scope struct {
	Kind     ScopeKind
	Sections []string
}

type ScopeKind string

const (
	ScopeFullDocument ScopeKind = "full"
	ScopeContentOnly  ScopeKind = "content"
	ScopeSections     ScopeKind = "sections"
)

// Timestamp carries the signing instant, the asserting authority's name,
// and an optional authority proof (e.g. a COSE-wrapped timestamp-authority
// token; spec §3.5, §4 Non-goals re: backdating).
type Timestamp struct {
	Instant        string // canonical encoded form, see payload.go
	Authority      string
	AuthorityProof []byte
}

// Record is one entry in a document's ordered signature list (spec §3.5,
// §4.4). RootHash is the root the signer claims to have signed, carried
// alongside the signature so a verifier can reject before ever touching
// crypto if it disagrees with the recomputed root (spec §4.4 step 2).
type Record struct {
	SignerID    string
	DisplayName string
	Certificate []byte
	Algorithm   Algorithm
	Scope       Scope
	Timestamp   Timestamp
	RootHash    []byte
	Signature   []byte
}

// Sign produces a Record for root under the given scope, signer, and
// timestamp. The key's bytes are read once and never retained; callers
// own the key's lifetime and must Release it themselves (spec §5 "Key
// lifetime").
func Sign(key *PrivateKey, root []byte, scope Scope, signerID, displayName string, ts Timestamp, expectedRootLen int) (Record, error) {
	if len(root) != expectedRootLen {
		return Record{}, fmt.Errorf("sign: root length %d does not match hash output length %d", len(root), expectedRootLen)
	}
	payload, err := CanonicalPayload(root, ts.Instant, signerID)
	if err != nil {
		return Record{}, err
	}

	raw := append([]byte(nil), key.Bytes()...)
	defer zeroLocal(raw)
	var sig []byte
	switch key.Algorithm {
	case Ed25519:
		sig, err = signEd25519(raw, payload)
	case Secp256k1:
		sig, err = signSecp256k1(raw, payload)
	default:
		err = ErrAlgoUnsupported
	}
	if err != nil {
		return Record{}, err
	}

	return Record{
		SignerID:    signerID,
		DisplayName: displayName,
		Algorithm:   key.Algorithm,
		Scope:       scope,
		Timestamp:   ts,
		RootHash:    append([]byte(nil), root...),
		Signature:   sig,
	}, nil
}

// zeroLocal clears a transient copy of key material the engine derived
// locally, per spec §5's requirement that derived scalars are treated like
// the key itself.
func zeroLocal(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Verdict is the outcome of Verify (spec §4.4 step 6).
type Verdict int

const (
	Valid Verdict = iota
	Invalid
	Revoked
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// Outcome is the full result of verifying one Record, including the reason
// for a negative verdict and, for Revoked, the revocation entry's bound time.
type Outcome struct {
	Verdict   Verdict
	Reason    string
	RevokedAt string
}

// Reason tags for Invalid outcomes. Kept closed so callers can switch on
// them without string matching.
const (
	ReasonAlgorithmNotWhitelisted = "algorithm_not_whitelisted"
	ReasonRootMismatch            = "root_mismatch"
	ReasonCryptoVerifyFailed      = "crypto_verify_failed"
	ReasonKeyPinMismatch          = "key_pin_mismatch"
	ReasonNoVerificationKey       = "no_verification_key"
	ReasonMalformedRecord         = "malformed_record"
	ReasonInvalidCurvePoint       = "invalid_curve_point"
	ReasonKeyTooWeak              = "key_too_weak"
)

// Policy is the subset of policy facets the verify sequence consults
// (spec §4.4 "Key resolution", §4.5 algorithm whitelist). The full policy
// surface lives in the root package; this is the narrow view the engine
// needs so it has no import-time dependency on it.
type Policy interface {
	AlgorithmWhitelisted(algo Algorithm) bool
	PinnedKey(signerID string) (PublicKey, bool)
	AllowCertificateKeys() bool
	// MinKeySizeBits is the configured minimum key size floor (spec §4.5
	// "Algorithm whitelist... a minimum key size"); 0 means unbounded.
	MinKeySizeBits() int
}

// KeySet resolves a signer_id to an externally provided public key, the
// second tier of the key resolution order (spec §4.4 "Key resolution" (b)).
type KeySet interface {
	Lookup(signerID string) (PublicKey, bool)
}

// RevocationEvaluator consults a revocation list for (signer_id, bound_time)
// per spec §4.5. bound_time is the record's own Timestamp.Instant — the
// signed value, not wall-clock time — so post-hoc timestamp edits cannot
// defeat revocation.
type RevocationEvaluator interface {
	Evaluate(signerID, boundTimestamp string) (revoked bool, revokedAt, reason string)
}

// ErrCertificateKeysDisallowed signals that key resolution fell through to
// tier (c) but policy forbids certificate-embedded keys.
var ErrCertificateKeysDisallowed = errors.New("sign: certificate-provided keys are disallowed by policy")

// extractCertificateKey parses an embedded certificate's public key. The
// spec leaves certificate encoding unspecified beyond "optional certificate
// bytes"; this engine treats the certificate payload as a raw public key
// of the record's declared algorithm, the minimal form that satisfies
// §4.4 tier (c) without inventing an X.509 profile the spec never asks for.
func extractCertificateKey(algo Algorithm, certificate []byte) (PublicKey, bool) {
	if len(certificate) == 0 {
		return PublicKey{}, false
	}
	return PublicKey{Algorithm: algo, Raw: certificate}, true
}

// resolveKey implements spec §4.4's three-tier key resolution order:
// (a) whitelist-pinned key, (b) externally provided key set, (c) embedded
// certificate if policy allows it. Tiers (b) and (c) are tried first here,
// ahead of (a): this is the key that's "actually required to verify the
// signature" in spec §4.4's phrasing, and it must be resolved independently
// of any pin so that a divergence between it and the pin is observable
// before crypto ever runs. Only when no independent (b)/(c) key exists does
// the pin itself become the verification key (tier (a) alone is sufficient
// when nothing else is available).
func resolveKey(policy Policy, keys KeySet, rec Record) (pub PublicKey, tier string, ok bool) {
	if keys != nil {
		if pk, found := keys.Lookup(rec.SignerID); found {
			return pk, "external", true
		}
	}
	if policy.AllowCertificateKeys() {
		if pk, found := extractCertificateKey(rec.Algorithm, rec.Certificate); found {
			return pk, "certificate", true
		}
	}
	if pk, found := policy.PinnedKey(rec.SignerID); found {
		return pk, "pinned", true
	}
	return PublicKey{}, "", false
}

// Verify runs the ordered verification sequence of spec §4.4:
//
//  1. algorithm whitelist check
//  2. root match (constant-time) against the recomputed root
//  3. canonical payload reconstruction
//  4. cryptographic signature verification
//  5. revocation consultation (if an evaluator is supplied)
//
// No step runs out of order: a whitelist rejection never reaches crypto
// verification, and crypto verification never runs before the root has
// been confirmed to match.
func Verify(rec Record, rootRecomputed []byte, policy Policy, keys KeySet, revocation RevocationEvaluator) Outcome {
	if !policy.AlgorithmWhitelisted(rec.Algorithm) {
		return Outcome{Verdict: Invalid, Reason: ReasonAlgorithmNotWhitelisted}
	}

	if !security.ConstantTimeEqual(rec.RootHash, rootRecomputed) {
		return Outcome{Verdict: Invalid, Reason: ReasonRootMismatch}
	}

	payload, err := CanonicalPayload(rec.RootHash, rec.Timestamp.Instant, rec.SignerID)
	if err != nil {
		return Outcome{Verdict: Invalid, Reason: ReasonMalformedRecord}
	}

	pinned, pinnedOK := policy.PinnedKey(rec.SignerID)
	pub, tier, ok := resolveKey(policy, keys, rec)
	if !ok {
		return Outcome{Verdict: Invalid, Reason: ReasonNoVerificationKey}
	}
	// A signer pinned to a key must not be allowed to verify under a
	// different key surfaced via certificate or external key set: that
	// disagreement is a hard failure, never a silent fallback (spec
	// §4.4 "Key resolution"). When resolveKey itself fell back to the
	// pin (no independent tier (b)/(c) key exists), there is nothing to
	// compare it against, so no mismatch can be observed.
	if pinnedOK && tier != "pinned" && !security.ConstantTimeEqual(pinned.Raw, pub.Raw) {
		return Outcome{Verdict: Invalid, Reason: ReasonKeyPinMismatch}
	}

	if floor := policy.MinKeySizeBits(); floor > 0 && len(pub.Raw)*8 < floor {
		return Outcome{Verdict: Invalid, Reason: ReasonKeyTooWeak}
	}

	valid, reason := verifySignature(pub, payload, rec.Signature)
	if !valid {
		return Outcome{Verdict: Invalid, Reason: reason}
	}

	if revocation != nil {
		if revoked, at, reason := revocation.Evaluate(rec.SignerID, rec.Timestamp.Instant); revoked {
			return Outcome{Verdict: Revoked, RevokedAt: at, Reason: reason}
		}
	}

	return Outcome{Verdict: Valid}
}

func verifySignature(pub PublicKey, payload, sig []byte) (bool, string) {
	switch pub.Algorithm {
	case Ed25519:
		return verifyEd25519(pub.Raw, payload, sig), ReasonCryptoVerifyFailed
	case Secp256k1:
		ok, err := verifySecp256k1(pub.Raw, payload, sig)
		if err != nil {
			return false, ReasonInvalidCurvePoint
		}
		return ok, ReasonCryptoVerifyFailed
	default:
		return false, ReasonAlgorithmNotWhitelisted
	}
}
