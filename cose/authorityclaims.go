package cose

import (
	"crypto/ecdsa"
	"errors"
	"reflect"

	"github.com/veraison/go-cose"
)

// Protected-header labels used for authority claims. Reuses the CWT claims
// label (15) the teacher's cose.go reads CWT issuer/subject/cnf from, but
// narrows the claim set to what an authority proof needs: who is asserting
// (Authority), what they're asserting about (Subject — a root hash or
// revocation list digest), and the key to verify them with (cnf).
const (
	HeaderLabelCWTClaims int64 = 15

	cwtKeyIss int64 = 1
	cwtKeySub int64 = 2
	cwtKeyCnf int64 = 8

	coseKeyCrv int64 = -1
	coseKeyX   int64 = -2
	coseKeyY   int64 = -3
)

var (
	// ErrNoConfirmationKey is returned when an envelope's claims have no
	// embedded verification key.
	ErrNoConfirmationKey = errors.New("cose: authority claims have no confirmation key")
	errClaimWrongType    = errors.New("cose: authority claim has unexpected type")
)

// AuthorityClaims identifies the authority asserting a proof, the subject
// of the assertion (e.g. a hex root hash or revocation-list digest), and
// the EC public key a verifier should use to check this envelope's
// signature.
type AuthorityClaims struct {
	Authority       string
	Subject         string
	ConfirmationKey *ecdsa.PublicKey
}

// SetAuthorityClaims embeds claims into the envelope's protected header,
// under the CWT claims label, the same header position
// massifs/cose/cose.go reads issuer/subject/cnf from.
func SetAuthorityClaims(e *Envelope, claims AuthorityClaims) error {
	if e.Headers.Protected == nil {
		e.Headers.Protected = make(cose.ProtectedHeader)
	}
	m := map[any]any{
		cwtKeyIss: claims.Authority,
		cwtKeySub: claims.Subject,
	}
	if claims.ConfirmationKey != nil {
		m[cwtKeyCnf] = map[any]any{
			1: map[any]any{ // COSE_Key
				coseKeyCrv: curveName(claims.ConfirmationKey),
				coseKeyX:   claims.ConfirmationKey.X.Bytes(),
				coseKeyY:   claims.ConfirmationKey.Y.Bytes(),
			},
		}
	}
	e.Headers.Protected[HeaderLabelCWTClaims] = m
	return nil
}

// AuthorityClaimsFromEnvelope extracts and decodes the claims set by
// SetAuthorityClaims.
func AuthorityClaimsFromEnvelope(e *Envelope) (*AuthorityClaims, error) {
	raw, ok := e.Headers.Protected[HeaderLabelCWTClaims]
	if !ok {
		return nil, ErrNoProtectedClaims
	}
	m, ok := raw.(map[any]any)
	if !ok {
		return nil, errClaimWrongType
	}

	claims := &AuthorityClaims{}
	if v, ok := m[cwtKeyIss].(string); ok {
		claims.Authority = v
	}
	if v, ok := m[cwtKeySub].(string); ok {
		claims.Subject = v
	}
	if cnf, ok := m[cwtKeyCnf].(map[any]any); ok {
		if key, ok := cnf[int64(1)].(map[any]any); ok {
			pub, err := ecPublicKeyFromCOSE(key)
			if err == nil {
				claims.ConfirmationKey = pub
			}
		}
	}
	return claims, nil
}

func curveName(pub *ecdsa.PublicKey) string {
	switch pub.Curve.Params().Name {
	case "P-256":
		return "P-256"
	case "P-384":
		return "P-384"
	case "P-521":
		return "P-521"
	default:
		return pub.Curve.Params().Name
	}
}

func ecPublicKeyFromCOSE(m map[any]any) (*ecdsa.PublicKey, error) {
	xRaw, ok := m[coseKeyX]
	if !ok {
		return nil, &keyFieldError{field: "x"}
	}
	yRaw, ok := m[coseKeyY]
	if !ok {
		return nil, &keyFieldError{field: "y"}
	}
	x, ok := xRaw.([]byte)
	if !ok {
		return nil, &keyFieldTypeError{field: "x", actual: reflect.TypeOf(xRaw)}
	}
	y, ok := yRaw.([]byte)
	if !ok {
		return nil, &keyFieldTypeError{field: "y", actual: reflect.TypeOf(yRaw)}
	}
	curveRaw, _ := m[coseKeyCrv].(string)
	return ecPublicKeyFromCoordinates(curveRaw, x, y)
}
