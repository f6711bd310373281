package tdfcore

import "errors"

// Sentinel errors for the core error taxonomy (spec §7). Per-signature and
// per-policy failures carry structured fields via the typed errors below;
// these sentinels support errors.Is checks at call sites.
var (
	ErrIntegrityInvalid  = errors.New("tdfcore: commitment root does not match recomputed root")
	ErrMissingComponent  = errors.New("tdfcore: required component absent from archive")
	ErrDecodeFailed      = errors.New("tdfcore: structured decode refused input")
	ErrPolicyViolation   = errors.New("tdfcore: policy violation")
	ErrSignatureInvalid  = errors.New("tdfcore: signature verification failed")
	ErrSignatureRevoked  = errors.New("tdfcore: signer revoked at bound timestamp")
	ErrNoSignatures      = errors.New("tdfcore: archive has no signatures and policy requires at least one")
	ErrNoVerificationKey = errors.New("tdfcore: no key available to verify signature")
)

// MissingComponentError names the absent required entry.
type MissingComponentError struct {
	Name string
}

func (e *MissingComponentError) Error() string {
	return "tdfcore: missing required component " + e.Name
}

func (e *MissingComponentError) Unwrap() error { return ErrMissingComponent }

// PolicyViolationError names which policy facet was violated.
type PolicyViolationError struct {
	What string
}

func (e *PolicyViolationError) Error() string {
	return "tdfcore: policy violation: " + e.What
}

func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }

// SignatureInvalidError names the signer and the reason verification failed.
// The reason is a short, information-free machine-readable tag: it must never
// carry secret material, file paths, or internal diagnostics (spec §7).
type SignatureInvalidError struct {
	Signer string
	Reason string
}

func (e *SignatureInvalidError) Error() string {
	return "tdfcore: signature invalid for signer " + e.Signer + ": " + e.Reason
}

func (e *SignatureInvalidError) Unwrap() error { return ErrSignatureInvalid }

// Reason tags used by SignatureInvalidError.Reason. Kept as a small closed set
// so callers can switch on them without string-matching free text.
const (
	ReasonAlgorithmNotWhitelisted = "algorithm_not_whitelisted"
	ReasonRootMismatch            = "root_mismatch"
	ReasonCryptoVerifyFailed      = "crypto_verify_failed"
	ReasonKeyPinMismatch          = "key_pin_mismatch"
	ReasonNoVerificationKey       = "no_verification_key"
	ReasonMalformedRecord         = "malformed_record"
)
