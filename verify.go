package tdfcore

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/tamperdoc/tdfcore/merkle"
	"github.com/tamperdoc/tdfcore/revocation"
	"github.com/tamperdoc/tdfcore/sign"
)

// Verify drives the C7 state machine end to end: ArchiveOpen →
// ComponentsIn → RootRecompute → SigEvaluate → Reported | Terminated
// (spec §4.7). It returns either a Report (the Reported terminal state) or
// an error (the Terminated terminal state, carrying the termination
// reason) — never both, so no partial report ever escapes.
//
// externalRevocation is consulted only when policy.RevocationMode is
// RevocationExternal; it may be nil otherwise.
//
// Any unexpected invariant violation inside the run — a panic in a
// dependency, not a modeled failure — is contained here: it never escapes
// to the caller as a crash. It is reported as PolicyViolation("internal")
// and the full detail goes to the audit channel instead (spec §7, §9).
func Verify(r io.ReaderAt, size int64, policy Policy, keys sign.KeySet, externalRevocation sign.RevocationEvaluator) (report *Report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			policy.audit().Error("tdfcore: verify panicked", "panic", rec)
			report, err = nil, &PolicyViolationError{What: "internal"}
		}
	}()

	// ArchiveOpen + ComponentsIn: entry policy and bounded decode.
	contents, err := ReadArchive(r, size, policy)
	if err != nil {
		policy.audit().Warn("tdfcore: archive read failed", "error", err)
		return nil, err
	}

	algo := merkle.Algorithm(contents.Manifest.Integrity.Algorithm)
	if !policy.AllowedHashAlgorithms[algo] {
		return nil, &PolicyViolationError{What: "allowed_hash_algorithms"}
	}
	claimedRoot, err := hex.DecodeString(contents.Manifest.Integrity.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest root is not valid hex", ErrDecodeFailed)
	}

	// RootRecompute: recompute the commitment and compare constant-time.
	maxNodes := merkleMaxNodes(policy, contents.Components.Len())
	if err := policy.Budget.ConsumeOps(int64(contents.Components.Len())); err != nil {
		return nil, err
	}
	if err := merkle.Verify(algo, contents.Components.Leaves(), claimedRoot, maxNodes); err != nil {
		return nil, ErrIntegrityInvalid
	}

	// SigEvaluate.
	if policy.RequireSignatures && len(contents.Signatures) == 0 {
		return nil, ErrNoSignatures
	}

	var revocationEval sign.RevocationEvaluator
	switch policy.RevocationMode {
	case RevocationSkip:
		revocationEval = nil
	case RevocationExternal:
		revocationEval = externalRevocation
	case RevocationEmbedded:
		if contents.Revocation != nil {
			eval, err := revocation.NewEvaluator(*contents.Revocation, policy.RequireAuthority)
			if err != nil {
				return nil, &PolicyViolationError{What: "revocation_authority"}
			}
			revocationEval = eval
		} else if policy.RequireAuthority {
			return nil, &MissingComponentError{Name: entryRevocation}
		}
	default:
		return nil, &PolicyViolationError{What: "revocation_mode"}
	}

	report = &Report{IntegrityValid: true, RootHash: hex.EncodeToString(claimedRoot)}
	report.SignatureCount = len(contents.Signatures)

	noKeyCount := 0
	for _, rec := range contents.Signatures {
		if err := policy.Budget.ConsumeOps(1); err != nil {
			return nil, err
		}

		detail := SignatureDetail{SignerID: rec.SignerID}

		accept, warn := policy.Whitelist.EvaluateSigner(rec.SignerID)
		if !accept {
			report.InvalidSignatures++
			detail.Verdict = "invalid"
			detail.Reason = "signer_not_whitelisted"
			report.SignatureDetails = append(report.SignatureDetails, detail)
			continue
		}
		if warn {
			report.addWarning(fmt.Sprintf("signer %q is not on the whitelist (advisory mode)", rec.SignerID))
		}

		outcome := sign.Verify(rec, claimedRoot, policy, keys, revocationEval)
		switch outcome.Verdict {
		case sign.Valid:
			report.ValidSignatures++
			detail.Verdict = "valid"
			checkTimestampSkew(report, policy, rec)
		case sign.Revoked:
			report.RevokedSignatures++
			detail.Verdict = "revoked"
			detail.Reason = outcome.Reason
			policy.audit().Info("tdfcore: signature revoked", "signer", rec.SignerID, "revoked_at", outcome.RevokedAt)
		default:
			report.InvalidSignatures++
			detail.Verdict = "invalid"
			detail.Reason = outcome.Reason
			policy.audit().Debug("tdfcore: signature invalid", "signer", rec.SignerID, "reason", outcome.Reason)
			if outcome.Reason == sign.ReasonNoVerificationKey {
				noKeyCount++
			}
		}
		report.SignatureDetails = append(report.SignatureDetails, detail)
	}

	// Spec §4.6 "Failure policy": an archive with signatures but no
	// resolvable key for any of them is unverifiable, not merely partially
	// invalid — fail the run rather than report a false sense of partial
	// coverage.
	if len(contents.Signatures) > 0 && noKeyCount == len(contents.Signatures) {
		return nil, ErrNoVerificationKey
	}

	return report, nil
}

// checkTimestampSkew adds a warning (never a failure) when a valid
// signature's bound timestamp drifts from wall clock beyond policy's
// tolerance (spec §6.3 `timestamp_skew_tolerance`).
func checkTimestampSkew(report *Report, policy Policy, rec sign.Record) {
	if policy.TimestampSkewTolerance <= 0 {
		return
	}
	t, err := time.Parse(time.RFC3339Nano, sign.CanonicalTimestampDecode(rec.Timestamp.Instant))
	if err != nil {
		report.addWarning(fmt.Sprintf("signer %q: unparseable timestamp", rec.SignerID))
		return
	}
	delta := time.Since(t)
	if delta < 0 {
		delta = -delta
	}
	if delta > policy.TimestampSkewTolerance {
		report.addWarning(fmt.Sprintf("signer %q: timestamp skew %s exceeds tolerance", rec.SignerID, delta))
	}
}
