// Package security provides the narrow cryptographic-hygiene primitives
// shared across merkle and sign: constant-time comparison and
// key-material zeroization. Neither has a natural home in a single component
// package, so they live here the way the teacher keeps its small shared
// helpers (hashwritevalue.go) independent of any one caller.
package security

import "crypto/subtle"

// ConstantTimeEqual reports whether a and b are byte-for-byte equal without
// leaking timing information about where they first differ. Unequal lengths
// are rejected up front (that comparison itself is not secret-dependent).
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
