package tdfcore

import (
	"github.com/tamperdoc/tdfcore/sign"
)

// signatureWire is the CBOR wire shape of one sign.Record, tagged the same
// keyasint way as Manifest (spec §6.1 `signatures` component). sign.Record
// itself carries no CBOR tags: it is the engine's in-memory shape, kept free
// of wire concerns so the engine package has no codec dependency.
type signatureWire struct {
	SignerID       string `cbor:"1,keyasint"`
	DisplayName    string `cbor:"2,keyasint,omitempty"`
	Certificate    []byte `cbor:"3,keyasint,omitempty"`
	Algorithm      string `cbor:"4,keyasint"`
	ScopeKind      string `cbor:"5,keyasint"`
	ScopeSections  []string `cbor:"6,keyasint,omitempty"`
	TimestampInstant   string `cbor:"7,keyasint"`
	TimestampAuthority string `cbor:"8,keyasint,omitempty"`
	AuthorityProof     []byte `cbor:"9,keyasint,omitempty"`
	RootHash       []byte `cbor:"10,keyasint"`
	Signature      []byte `cbor:"11,keyasint"`
}

// signatureListWire is the `signatures` component's top-level shape: an
// ordered list, order preserved on the wire (spec §4.7 ordering guarantee
// "signatures are evaluated in the order stored").
type signatureListWire struct {
	Entries []signatureWire `cbor:"1,keyasint"`
}

func toSignatureWire(r sign.Record) signatureWire {
	return signatureWire{
		SignerID:           r.SignerID,
		DisplayName:        r.DisplayName,
		Certificate:        r.Certificate,
		Algorithm:          string(r.Algorithm),
		ScopeKind:          string(r.Scope.Kind),
		ScopeSections:      r.Scope.Sections,
		TimestampInstant:   r.Timestamp.Instant,
		TimestampAuthority: r.Timestamp.Authority,
		AuthorityProof:     r.Timestamp.AuthorityProof,
		RootHash:           r.RootHash,
		Signature:          r.Signature,
	}
}

func fromSignatureWire(w signatureWire) sign.Record {
	return sign.Record{
		SignerID:    w.SignerID,
		DisplayName: w.DisplayName,
		Certificate: w.Certificate,
		Algorithm:   sign.Algorithm(w.Algorithm),
		Scope: sign.Scope{
			Kind:     sign.ScopeKind(w.ScopeKind),
			Sections: w.ScopeSections,
		},
		Timestamp: sign.Timestamp{
			Instant:        w.TimestampInstant,
			Authority:      w.TimestampAuthority,
			AuthorityProof: w.AuthorityProof,
		},
		RootHash:  w.RootHash,
		Signature: w.Signature,
	}
}

// EncodeSignatures serializes an ordered list of signature records for the
// `signatures` component.
func EncodeSignatures(codec cborMarshaler, records []sign.Record) ([]byte, error) {
	wire := signatureListWire{Entries: make([]signatureWire, len(records))}
	for i, r := range records {
		wire.Entries[i] = toSignatureWire(r)
	}
	return codec.Marshal(wire)
}

// cborUnmarshaler is the narrow decode surface this file needs.
type cborUnmarshaler interface {
	DecodeInto(data []byte, v any) error
}

// DecodeSignatures parses the `signatures` component back into records, in
// stored order.
func DecodeSignatures(codec cborUnmarshaler, data []byte) ([]sign.Record, error) {
	var wire signatureListWire
	if err := codec.DecodeInto(data, &wire); err != nil {
		return nil, err
	}
	records := make([]sign.Record, len(wire.Entries))
	for i, w := range wire.Entries {
		records[i] = fromSignatureWire(w)
	}
	return records, nil
}
