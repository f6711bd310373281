package tdfcore

// Report is the verification outcome returned to callers, produced only
// in the orchestrator's Reported terminal state (spec §6.4, §4.7).
type Report struct {
	IntegrityValid    bool
	RootHash          string // hex-encoded
	SignatureCount    int
	ValidSignatures   int
	InvalidSignatures int
	RevokedSignatures int
	Warnings          []string

	// SignatureDetails carries per-signer verdicts for callers that need
	// more than the aggregate counts. Not part of the minimal §6.4 shape
	// but additive and harmless to include.
	SignatureDetails []SignatureDetail
}

// SignatureDetail is one signature's verdict inside a Report.
type SignatureDetail struct {
	SignerID string
	Verdict  string // "valid" | "invalid" | "revoked"
	Reason   string
}

func (r *Report) addWarning(w string) {
	r.Warnings = append(r.Warnings, w)
}
