package codec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrDecode is returned when a structured payload is refused under the
// configured size or depth bounds, or fails to parse.
var ErrDecode = errors.New("codec: structured decode refused input")

// CBORCodec wraps deterministic encode options and bounded decode options,
// mirroring the teacher's massifs/cborcodec.go NewCBORCodec /
// rootsigner.go encOptions/decOptions split: one codec value, reused for
// every component, so every writer/reader agrees on the exact same
// canonicalization rules.
type CBORCodec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
	maxSize int64
}

// NewCBORCodec builds a codec bounded by maxSize (bytes) and maxDepth (nesting
// levels). maxSize is enforced by the caller via DecodeInto before the bytes
// ever reach the cbor package; maxDepth is enforced by cbor's own DecOptions.
func NewCBORCodec(maxSize int64, maxDepth int32) (CBORCodec, error) {
	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		Time:        cbor.TimeRFC3339Nano,
		IndefLength: cbor.IndefLengthForbidden,
	}
	encMode, err := encOpts.EncMode()
	if err != nil {
		return CBORCodec{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	decOpts := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		IntDec:           cbor.IntDecConvertNone,
		TagsMd:           cbor.TagsForbidden,
		MaxNestedLevels:  int(maxDepth),
		MaxArrayElements: 1 << 20,
		MaxMapPairs:      1 << 20,
	}
	decMode, err := decOpts.DecMode()
	if err != nil {
		return CBORCodec{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return CBORCodec{encMode: encMode, decMode: decMode, maxSize: maxSize}, nil
}

// Marshal encodes v using the codec's deterministic encode options.
func (c CBORCodec) Marshal(v any) ([]byte, error) {
	b, err := c.encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// DecodeInto decodes data into v, refusing input larger than the codec's
// maxSize before handing anything to the cbor decoder, and refusing nesting
// beyond maxDepth via the decoder's own bound.
func (c CBORCodec) DecodeInto(data []byte, v any) error {
	if int64(len(data)) > c.maxSize {
		return fmt.Errorf("%w: %d bytes exceeds bound %d", ErrDecode, len(data), c.maxSize)
	}
	if err := c.decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
