package tdfcore

import (
	"io"
	"log/slog"
	"time"

	"github.com/tamperdoc/tdfcore/merkle"
	"github.com/tamperdoc/tdfcore/revocation"
	"github.com/tamperdoc/tdfcore/sign"
)

// discardAudit is the default audit sink: detailed diagnostics are dropped
// unless a caller opts in with WithAuditLogger (spec §7 "audit channel
// distinct from the user-visible error").
var discardAudit = slog.New(slog.NewTextHandler(io.Discard, nil))

// RevocationMode selects how a verification treats the revocation
// component of an archive (spec §6.3 `revocation_mode`).
type RevocationMode string

const (
	RevocationSkip     RevocationMode = "skip"
	RevocationEmbedded RevocationMode = "embedded"
	RevocationExternal RevocationMode = "external"
)

// Policy is the configuration value controlling algorithm whitelist, size
// limits, revocation mode, whitelist mode, and resource budgets (spec §6.3,
// GLOSSARY "Policy"). It is an immutable value once constructed: callers
// build one with DefaultPolicy + Option funcs and pass it by value/pointer
// into every verification; nothing inside the core mutates it (spec §9
// "Global mutable state. None internal to the core").
type Policy struct {
	MaxFileSizeBytes      int64
	MaxFileCount          int
	MaxDecompressionRatio int64
	MaxCBORSize           int64
	MaxCBORDepth          int32

	AllowedSignatureAlgorithms map[sign.Algorithm]bool
	AllowedHashAlgorithms      map[merkle.Algorithm]bool
	MinimumKeySizeBits         int

	RequireSignatures bool
	RevocationMode    RevocationMode
	RequireAuthority  bool

	Whitelist revocation.Whitelist

	Budget *ResourceBudget

	TimestampSkewTolerance time.Duration

	// Audit receives structured diagnostic events distinct from the
	// terse, information-free errors and reports returned to callers
	// (spec §7 "audit channel"). Defaults to a discarding logger.
	Audit *slog.Logger

	allowCertificateKeys bool
}

// audit returns a non-nil logger, so call sites never need a nil check.
func (p Policy) audit() *slog.Logger {
	if p.Audit != nil {
		return p.Audit
	}
	return discardAudit
}

// Option configures a Policy at construction time, the functional-options
// idiom the teacher uses throughout (massifs' `Option func(*any)` pattern
// in options.go, generalized here to a closed Policy type).
type Option func(*Policy)

// DefaultPolicy returns the fail-closed baseline: Ed25519 only, sha-256
// only, signatures required, whitelist enforced, conservative size/ratio
// ceilings, a bounded resource budget (spec §6.1 defaults: 10 MB / depth 64
// for CBOR; a 100x decompression ratio ceiling mirroring §8.3 scenario 5).
func DefaultPolicy(opts ...Option) Policy {
	p := Policy{
		MaxFileSizeBytes:      64 << 20,
		MaxFileCount:          256,
		MaxDecompressionRatio: 100,
		MaxCBORSize:           10 << 20,
		MaxCBORDepth:          64,
		AllowedSignatureAlgorithms: map[sign.Algorithm]bool{
			sign.Ed25519: true,
		},
		AllowedHashAlgorithms: map[merkle.Algorithm]bool{
			merkle.SHA256: true,
		},
		MinimumKeySizeBits: 128,
		RequireSignatures:  true,
		RevocationMode:     RevocationEmbedded,
		Whitelist:          revocation.Whitelist{Mode: revocation.ModeEnforce},
		Budget:             NewResourceBudget(1<<20, 1<<30),
		Audit:              discardAudit,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// WithSignatureAlgorithms replaces the signature algorithm whitelist.
func WithSignatureAlgorithms(algos ...sign.Algorithm) Option {
	return func(p *Policy) {
		m := make(map[sign.Algorithm]bool, len(algos))
		for _, a := range algos {
			m[a] = true
		}
		p.AllowedSignatureAlgorithms = m
	}
}

// WithHashAlgorithms replaces the hash algorithm whitelist.
func WithHashAlgorithms(algos ...merkle.Algorithm) Option {
	return func(p *Policy) {
		m := make(map[merkle.Algorithm]bool, len(algos))
		for _, a := range algos {
			m[a] = true
		}
		p.AllowedHashAlgorithms = m
	}
}

// WithWhitelist sets the signer whitelist and its mode.
func WithWhitelist(w revocation.Whitelist) Option {
	return func(p *Policy) { p.Whitelist = w }
}

// WithRevocationMode sets how the revocation component is treated.
func WithRevocationMode(m RevocationMode) Option {
	return func(p *Policy) { p.RevocationMode = m }
}

// WithRequireAuthority demands a signed revocation list even in embedded
// mode (spec §9 Open Question "Revocation list authenticity").
func WithRequireAuthority(require bool) Option {
	return func(p *Policy) { p.RequireAuthority = require }
}

// WithResourceBudget overrides the default resource budget.
func WithResourceBudget(b *ResourceBudget) Option {
	return func(p *Policy) { p.Budget = b }
}

// WithAllowCertificateKeys permits key resolution tier (c), certificate-
// embedded keys (spec §4.4 "Key resolution").
func WithAllowCertificateKeys(allow bool) Option {
	return func(p *Policy) { p.allowCertificateKeys = allow }
}

// WithRequireSignatures toggles the fail-closed "archive has no signatures"
// rule (spec §4.6 "Failure policy").
func WithRequireSignatures(require bool) Option {
	return func(p *Policy) { p.RequireSignatures = require }
}

// WithAuditLogger routes detailed diagnostic events to l instead of
// discarding them (spec §7 "audit channel").
func WithAuditLogger(l *slog.Logger) Option {
	return func(p *Policy) { p.Audit = l }
}

// AlgorithmWhitelisted implements sign.Policy.
func (p Policy) AlgorithmWhitelisted(algo sign.Algorithm) bool {
	return p.AllowedSignatureAlgorithms[algo]
}

// PinnedKey implements sign.Policy, sourcing pins from the whitelist.
func (p Policy) PinnedKey(signerID string) (sign.PublicKey, bool) {
	raw, algo, ok := p.Whitelist.PinnedKey(signerID)
	if !ok {
		return sign.PublicKey{}, false
	}
	return sign.PublicKey{Algorithm: sign.Algorithm(algo), Raw: raw}, true
}

// AllowCertificateKeys implements sign.Policy.
func (p Policy) AllowCertificateKeys() bool { return p.allowCertificateKeys }

// MinKeySizeBits implements sign.Policy, exposing the configured key-size
// floor under a name distinct from the MinimumKeySizeBits field it reads.
func (p Policy) MinKeySizeBits() int { return p.MinimumKeySizeBits }
