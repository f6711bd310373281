package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec enforces the same size bound as CBORCodec for the optional JSON
// form of the `data` component (spec §6.1). Go's encoding/json has no native
// nesting-depth limit, so depth is enforced by walking the decoded token
// stream and counting open/close delimiters — the only library-free way to
// bound it, and narrow enough that reaching for a third-party JSON library
// here (none in the pack offers bounded decode either) would not simplify
// anything.
type JSONCodec struct {
	maxSize  int64
	maxDepth int
}

func NewJSONCodec(maxSize int64, maxDepth int32) JSONCodec {
	return JSONCodec{maxSize: maxSize, maxDepth: int(maxDepth)}
}

func (c JSONCodec) DecodeInto(data []byte, v any) error {
	if int64(len(data)) > c.maxSize {
		return fmt.Errorf("%w: %d bytes exceeds bound %d", ErrDecode, len(data), c.maxSize)
	}
	if err := c.checkDepth(data); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c JSONCodec) checkDepth(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch tok.(type) {
		case json.Delim:
			d := tok.(json.Delim)
			switch d {
			case '{', '[':
				depth++
				if depth > c.maxDepth {
					return fmt.Errorf("%w: nesting exceeds max depth %d", ErrDecode, c.maxDepth)
				}
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
