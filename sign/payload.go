// Package sign implements the signature engine (spec §4.4): canonical
// payload construction, Ed25519 and secp256k1-ECDSA signing/verification,
// and the ordered verification sequence that binds a signature to a root,
// a timestamp, and a signer with no separable fields.
//
// Grounded on massifs/rootsigner.go's Sign1 / signing-payload construction
// pattern, generalized from COSE's Sig_structure wrapping (which the
// teacher uses) to the spec's literal fixed byte-string payload, since
// COSE's AAD framing does not reduce to the exact "TDF-SIG-V1:root:ts:signer"
// contract (see DESIGN.md).
package sign

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// payloadPrefix is the fixed tag identifying the canonical payload format
// version (spec §4.4). A future format change bumps this, not the
// delimiter scheme.
const payloadPrefix = "TDF-SIG-V1:"

// errInvalidField is wrapped when a signer identifier or timestamp contains
// the payload delimiter byte, which would make the canonical payload ambiguous.
var errInvalidField = fmt.Errorf("sign: field contains reserved delimiter ':'")

// CanonicalPayload builds the exact byte sequence that gets signed (spec
// §6.2):
//
//	"TDF-SIG-V1:" || hex(root_hash) || ":" || canonical_timestamp || ":" || signer_id
//
// canonicalTimestamp and signerID must not themselves contain ':'.
func CanonicalPayload(rootHash []byte, canonicalTimestamp, signerID string) ([]byte, error) {
	if strings.Contains(canonicalTimestamp, ":") {
		return nil, fmt.Errorf("sign: timestamp must use a colon-free encoding: %w", errInvalidField)
	}
	if strings.Contains(signerID, ":") {
		return nil, fmt.Errorf("sign: signer id %q: %w", signerID, errInvalidField)
	}

	hexRoot := hex.EncodeToString(rootHash)
	buf := make([]byte, 0, len(payloadPrefix)+len(hexRoot)+1+len(canonicalTimestamp)+1+len(signerID))
	buf = append(buf, payloadPrefix...)
	buf = append(buf, hexRoot...)
	buf = append(buf, ':')
	buf = append(buf, canonicalTimestamp...)
	buf = append(buf, ':')
	buf = append(buf, signerID...)
	return buf, nil
}

// CanonicalTimestampEncode rewrites an ISO-8601 UTC nanosecond timestamp
// string into the form the payload contract uses. Colons in the time-of-day are replaced
// with a dot so the result never collides with the payload delimiter,
// per spec §4.4's requirement that the delimiter byte cannot appear
// inside a field; verifiers must use the identical substitution.
func CanonicalTimestampEncode(iso8601Nano string) string {
	return strings.ReplaceAll(iso8601Nano, ":", ".")
}

// CanonicalTimestampDecode reverses CanonicalTimestampEncode for a UTC
// timestamp: the two time-of-day separators become ':' again, and a
// fractional-second '.' is left in place.
func CanonicalTimestampDecode(encoded string) string {
	return strings.Replace(encoded, ".", ":", 2)
}
