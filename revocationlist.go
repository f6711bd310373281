package tdfcore

import (
	"github.com/tamperdoc/tdfcore/revocation"
)

// revocationEntryWire is the CBOR wire shape of one revocation.Entry.
type revocationEntryWire struct {
	SignerID  string `cbor:"1,keyasint"`
	RevokedAt string `cbor:"2,keyasint"`
	Reason    string `cbor:"3,keyasint,omitempty"`
}

// revocationListWire is the optional `revocation` component's top-level
// shape (spec §4.6 container layout, §4.5 "Revocation lists may themselves
// be signed").
type revocationListWire struct {
	Entries   []revocationEntryWire `cbor:"1,keyasint"`
	Signed    bool                  `cbor:"2,keyasint"`
	Authority string                `cbor:"3,keyasint,omitempty"`
}

// EncodeRevocationList serializes a revocation.List for the `revocation`
// component.
func EncodeRevocationList(codec cborMarshaler, list revocation.List) ([]byte, error) {
	wire := revocationListWire{
		Entries:   make([]revocationEntryWire, len(list.Entries)),
		Signed:    list.Signed,
		Authority: list.Authority,
	}
	for i, e := range list.Entries {
		wire.Entries[i] = revocationEntryWire{SignerID: e.SignerID, RevokedAt: e.RevokedAt, Reason: e.Reason}
	}
	return codec.Marshal(wire)
}

// DecodeRevocationList parses the `revocation` component.
func DecodeRevocationList(codec cborUnmarshaler, data []byte) (revocation.List, error) {
	var wire revocationListWire
	if err := codec.DecodeInto(data, &wire); err != nil {
		return revocation.List{}, err
	}
	list := revocation.List{
		Entries:   make([]revocation.Entry, len(wire.Entries)),
		Signed:    wire.Signed,
		Authority: wire.Authority,
	}
	for i, e := range wire.Entries {
		list.Entries[i] = revocation.Entry{SignerID: e.SignerID, RevokedAt: e.RevokedAt, Reason: e.Reason}
	}
	return list, nil
}
