package tdfcore

import "errors"

// BlockKind enumerates the closed tagged-variant set a content block may
// be (spec §3.3). Grounded on the teacher's logformat.go fixed-tag-byte
// dispatch convention, generalized from log-entry kinds to content-block
// kinds. Adding a kind requires a SchemaVersion bump (spec §9
// "Polymorphic content blocks").
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockTable     BlockKind = "table"
	BlockDiagram   BlockKind = "diagram"
	BlockFigure    BlockKind = "figure"
	BlockFootnote  BlockKind = "footnote"
)

// ErrUnknownBlockKind is returned when a decoded block carries a tag
// outside the closed set above (spec §9: "verifiers of older versions must
// refuse newer tags rather than skip them").
var ErrUnknownBlockKind = errors.New("tdfcore: unknown content block kind")

// Block is a single content block: a tagged variant where exactly the
// field matching Kind is populated. Dispatch is a switch over Kind, never
// a type assertion chain, matching the teacher's fixed-tag style.
type Block struct {
	Kind BlockKind `cbor:"1,keyasint"`

	Heading  *Heading  `cbor:"2,keyasint,omitempty"`
	Text     string    `cbor:"3,keyasint,omitempty"` // paragraph body
	List     *List     `cbor:"4,keyasint,omitempty"`
	Table    *Table    `cbor:"5,keyasint,omitempty"`
	Diagram  *Diagram  `cbor:"6,keyasint,omitempty"`
	Figure   *Figure   `cbor:"7,keyasint,omitempty"`
	Footnote *Footnote `cbor:"8,keyasint,omitempty"`
}

// Heading is a section heading block (spec §3.3: "level 1-4, text,
// optional id").
type Heading struct {
	Level int    `cbor:"1,keyasint"`
	Text  string `cbor:"2,keyasint"`
	ID    string `cbor:"3,keyasint,omitempty"`
}

// List is an ordered or unordered list block.
type List struct {
	Ordered bool     `cbor:"1,keyasint"`
	Items   []string `cbor:"2,keyasint"`
}

// Figure references an asset by path (spec §3.3, invariant: the path must
// exist in the component set).
type Figure struct {
	Asset   string `cbor:"1,keyasint"`
	AltText string `cbor:"2,keyasint,omitempty"`
	Caption string `cbor:"3,keyasint,omitempty"`
	Width   int    `cbor:"4,keyasint,omitempty"`
}

// Footnote is a referenceable footnote block.
type Footnote struct {
	ID   string `cbor:"1,keyasint"`
	Text string `cbor:"2,keyasint"`
}

// Section is a stable-id-addressed ordered sequence of blocks (spec §3.3).
type Section struct {
	ID     string  `cbor:"1,keyasint"`
	Blocks []Block `cbor:"2,keyasint"`
}

// Content is the document body: an ordered sequence of sections (spec
// §3.1, §3.3).
type Content struct {
	Sections []Section `cbor:"1,keyasint"`
}
