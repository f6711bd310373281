package revocation

// Mode controls how a non-member of a whitelist is treated. Grounded on
// the advisory/enforce naming convention used for image-signing policy
// objects across the pack (e.g. sigstore-style ClusterImagePolicy modes);
// enforce is the default this module recommends for high-assurance callers
// (spec §4.5 "Signer whitelist").
type Mode string

const (
	ModeNone     Mode = "none"
	ModeAdvisory Mode = "advisory"
	ModeEnforce  Mode = "enforce"
)

// SignerEntry pins a trusted signer to an optional public key.
type SignerEntry struct {
	SignerID  string
	PublicKey []byte // nil if not pinned
	Algorithm string
}

// Whitelist enumerates the trusted signer set and its enforcement mode
// (spec §4.5 "Signer whitelist"). The signature/hash algorithm whitelist and
// minimum key size live on the root package's Policy instead — Policy is
// the thing actually consulted during verification (spec §4.5 "Algorithm
// whitelist"), so duplicating that state here would just be a second, never
// synchronized copy of the same facts.
type Whitelist struct {
	Signers map[string]SignerEntry
	Mode    Mode
}

// EvaluateSigner reports whether signerID should be accepted given Mode:
// advisory always accepts but flags non-members as warnings; enforce
// rejects non-members outright.
func (w Whitelist) EvaluateSigner(signerID string) (accept bool, warn bool) {
	if w.Mode == ModeNone || w.Mode == "" {
		return true, false
	}
	_, known := w.Signers[signerID]
	if known {
		return true, false
	}
	if w.Mode == ModeEnforce {
		return false, false
	}
	return true, true
}

// PinnedKey returns the pinned public key bytes for signerID, if any.
func (w Whitelist) PinnedKey(signerID string) ([]byte, string, bool) {
	entry, ok := w.Signers[signerID]
	if !ok || entry.PublicKey == nil {
		return nil, "", false
	}
	return entry.PublicKey, entry.Algorithm, true
}
