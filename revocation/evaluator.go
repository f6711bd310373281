package revocation

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrUnsignedList signals that a revocation list lacked an authority
// signature while policy demanded one (spec §9 Open Question: revocation
// list authenticity).
var ErrUnsignedList = errors.New("revocation: list is not signed and policy requires authority proof")

// Evaluator answers the (signer_id, bound_time) query spec §4.5 defines:
// the earliest entry for that signer whose RevokedAt is <= bound_time.
// Because bound_time is the signature's own signed timestamp, an attacker
// who could otherwise forge an earlier wall-clock time cannot use that to
// dodge revocation — the binding happens before the signature is produced.
type Evaluator struct {
	bySigner map[string][]Entry // sorted ascending by RevokedAt per signer
	bloom    *bloomIndex
}

// NewEvaluator builds an Evaluator from list. requireAuthority gates the
// embedded-but-unsigned case: when true and list.Signed is false,
// construction fails closed rather than silently trusting unauthenticated
// entries.
func NewEvaluator(list List, requireAuthority bool) (*Evaluator, error) {
	if requireAuthority && !list.Signed {
		return nil, ErrUnsignedList
	}

	bySigner := make(map[string][]Entry)
	for _, e := range list.Entries {
		bySigner[e.SignerID] = append(bySigner[e.SignerID], e)
	}
	for signerID, entries := range bySigner {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].RevokedAt < entries[j].RevokedAt
		})
		bySigner[signerID] = entries
	}

	bloom, _ := newBloomIndex(len(list.Entries), 10, 4)
	if bloom != nil {
		for signerID := range bySigner {
			bloom.insert(signerElement(signerID))
		}
	}

	return &Evaluator{bySigner: bySigner, bloom: bloom}, nil
}

// Evaluate implements the RevocationEvaluator contract the sign package
// consults (spec §4.4 step 5, §4.5). It returns (revoked, revokedAt, reason)
// for the earliest qualifying entry, or (false, "", "") if none.
func (e *Evaluator) Evaluate(signerID, boundTimestamp string) (bool, string, string) {
	if e.bloom != nil && !e.bloom.maybeContains(signerElement(signerID)) {
		return false, "", ""
	}
	entries, ok := e.bySigner[signerID]
	if !ok {
		return false, "", ""
	}
	boundAt, err := parseCanonical(boundTimestamp)
	if err != nil {
		// A malformed bound timestamp cannot be compared; fail closed by
		// treating it as if every known revocation applies, since we
		// cannot prove the signature predates any of them.
		if len(entries) > 0 {
			return true, entries[0].RevokedAt, entries[0].Reason
		}
		return false, "", ""
	}
	for _, entry := range entries {
		revokedAt, err := parseCanonical(entry.RevokedAt)
		if err != nil {
			continue
		}
		if !revokedAt.After(boundAt) {
			return true, entry.RevokedAt, entry.Reason
		}
	}
	return false, "", ""
}

// parseCanonical parses the dot-substituted canonical timestamp encoding
// used throughout the signature payload and revocation list (sign/payload.go).
func parseCanonical(encoded string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.Replace(encoded, ".", ":", 2))
}
