package sign

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ErrInvalidCurvePoint is returned when a claimed secp256k1 public key is
// the point at infinity or otherwise not a valid on-curve point in the
// correct subgroup (spec §4.4 "Curve-point validation is mandatory").
var ErrInvalidCurvePoint = errors.New("sign: secp256k1 public key is not a valid curve point")

func signSecp256k1(privRaw, payload []byte) ([]byte, error) {
	if len(privRaw) != 32 {
		return nil, ErrKeySize
	}
	priv := secp256k1.PrivKeyFromBytes(privRaw)
	sig := ecdsa.Sign(priv, payload)
	return sig.Serialize(), nil
}

// verifySecp256k1 parses pubRaw as a compressed or uncompressed SEC1 point,
// rejecting the identity and any point not on the curve (ParsePubKey
// already performs this check; it errors on malformed, off-curve, or
// otherwise invalid encodings), then verifies sig over payload.
func verifySecp256k1(pubRaw, payload, sig []byte) (bool, error) {
	pub, err := secp256k1.ParsePubKey(pubRaw)
	if err != nil {
		return false, ErrInvalidCurvePoint
	}
	if pub.X().IsZero() && pub.Y().IsZero() {
		return false, ErrInvalidCurvePoint
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, nil
	}
	return parsed.Verify(payload, pub), nil
}
