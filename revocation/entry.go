package revocation

// Entry is one revocation record: a signer is considered revoked for any
// bound timestamp at or after RevokedAt (spec §4.5).
type Entry struct {
	SignerID  string
	RevokedAt string // canonical encoded timestamp, comparable lexicographically
	Reason    string
}

// List is an ordered set of revocation entries, optionally signed by an
// authority. The signature, if present, is verified by the caller before
// constructing an Evaluator from it when the policy demands authenticity
// (spec §4.5 "Revocation lists may themselves be signed").
type List struct {
	Entries   []Entry
	Signed    bool
	Authority string
}
