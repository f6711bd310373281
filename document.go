package tdfcore

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Document is the full typed model of a container's content: manifest,
// content tree, styling, and optional layout/data/assets (spec §3).
// Validate must pass before packaging and after unpackaging (spec §4.3).
type Document struct {
	Manifest Manifest
	Content  Content
	Styles   string
	Layout   []byte // optional, CBOR
	Data     []byte // optional, CBOR or JSON depending on manifest schema
	Assets   map[string][]byte
}

// footnoteRefPattern matches an inline footnote reference like "[^id]" in
// paragraph text.
var footnoteRefPattern = regexp.MustCompile(`\[\^([^\]]+)\]`)

// Validate checks every structural invariant spec §4.3 names. It does not
// touch the commitment or signatures; those are C2/C5 concerns.
func (d *Document) Validate() error {
	seenSectionIDs := make(map[string]bool)
	declaredFootnotes := make(map[string]bool)
	referencedFootnotes := make(map[string]bool)

	for _, s := range d.Content.Sections {
		if s.ID == "" {
			return &validationError{"section id must not be empty"}
		}
		if seenSectionIDs[s.ID] {
			return &validationError{fmt.Sprintf("duplicate section id %q", s.ID)}
		}
		seenSectionIDs[s.ID] = true

		for _, b := range s.Blocks {
			if err := d.validateBlock(b, declaredFootnotes, referencedFootnotes); err != nil {
				return err
			}
		}
	}

	for id := range referencedFootnotes {
		if !declaredFootnotes[id] {
			return &validationError{fmt.Sprintf("footnote %q referenced but not declared", id)}
		}
	}

	return nil
}

func (d *Document) validateBlock(b Block, declaredFootnotes, referencedFootnotes map[string]bool) error {
	switch b.Kind {
	case BlockFootnote:
		if b.Footnote == nil || b.Footnote.ID == "" {
			return &validationError{"footnote block missing id"}
		}
		declaredFootnotes[b.Footnote.ID] = true
	case BlockParagraph:
		for _, m := range footnoteRefPattern.FindAllStringSubmatch(b.Text, -1) {
			referencedFootnotes[m[1]] = true
		}
	case BlockTable:
		if b.Table == nil {
			return &validationError{"table block missing table"}
		}
		if err := validateTable(*b.Table); err != nil {
			return err
		}
	case BlockFigure:
		if b.Figure == nil || b.Figure.Asset == "" {
			return &validationError{"figure block missing asset path"}
		}
		if _, ok := d.Assets[b.Figure.Asset]; !ok {
			return &validationError{fmt.Sprintf("figure asset %q not present in component set", b.Figure.Asset)}
		}
	case BlockHeading:
		if b.Heading == nil || b.Heading.Level < 1 || b.Heading.Level > 4 {
			return &validationError{"heading level must be 1-4"}
		}
	case BlockDiagram:
		if b.Diagram == nil {
			return &validationError{"diagram block missing diagram"}
		}
		if err := validateDiagram(*b.Diagram); err != nil {
			return err
		}
	case BlockList:
		// no additional structural invariant beyond presence.
		if b.List == nil {
			return &validationError{"list block missing list"}
		}
	default:
		return ErrUnknownBlockKind
	}
	return nil
}

func validateTable(t Table) error {
	columns := make(map[string]Column, len(t.Columns))
	for _, c := range t.Columns {
		columns[c.ID] = c
	}
	checkRow := func(r Row) error {
		for _, cell := range r.Cells {
			col, ok := columns[cell.ColumnID]
			if !ok {
				return &validationError{fmt.Sprintf("table row references undeclared column %q", cell.ColumnID)}
			}
			if err := validateCellType(col, cell); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range t.Rows {
		if err := checkRow(r); err != nil {
			return err
		}
	}
	if t.Footer != nil {
		if err := checkRow(*t.Footer); err != nil {
			return err
		}
	}
	return nil
}

// iso4217Pattern is the narrow structural check for a currency column's
// declared code: three uppercase letters. It does not consult a currency
// registry; spec §3.3 names only the code shape, not a closed code list.
var iso4217Pattern = regexp.MustCompile(`^[A-Z]{3}$`)

// dateLayout is the one date form cell values in a CellDate column may use.
const dateLayout = "2006-01-02"

// validateCellType enforces spec §4.3's "cell value agrees with declared
// column type" invariant, plus "numeric cells carry both a raw value and a
// display string" for every type with machine-readable semantics.
func validateCellType(col Column, cell Cell) error {
	switch col.Type {
	case CellText:
		return nil
	case CellNumber, CellPercentage:
		if _, err := strconv.ParseFloat(cell.Raw, 64); err != nil {
			return &validationError{fmt.Sprintf("cell for column %q declares %s but raw value %q is not numeric", col.ID, col.Type, cell.Raw)}
		}
		return requireDisplay(col, cell)
	case CellCurrency:
		if !iso4217Pattern.MatchString(col.Currency) {
			return &validationError{fmt.Sprintf("column %q declares currency type with invalid ISO-4217 code %q", col.ID, col.Currency)}
		}
		if _, err := strconv.ParseFloat(cell.Raw, 64); err != nil {
			return &validationError{fmt.Sprintf("cell for column %q declares currency but raw value %q is not numeric", col.ID, cell.Raw)}
		}
		return requireDisplay(col, cell)
	case CellDate:
		if _, err := time.Parse(dateLayout, cell.Raw); err != nil {
			return &validationError{fmt.Sprintf("cell for column %q declares date but raw value %q is not a valid date", col.ID, cell.Raw)}
		}
		return nil
	default:
		return &validationError{fmt.Sprintf("column %q declares unknown cell type %q", col.ID, col.Type)}
	}
}

func requireDisplay(col Column, cell Cell) error {
	if cell.Display == "" {
		return &validationError{fmt.Sprintf("numeric cell for column %q missing display string", col.ID)}
	}
	return nil
}

func validateDiagram(d Diagram) error {
	nodeIDs := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return &validationError{"diagram node id must not be empty"}
		}
		nodeIDs[n.ID] = true
	}
	for _, e := range d.Edges {
		if !nodeIDs[e.From] {
			return &validationError{fmt.Sprintf("diagram edge references undeclared node %q", e.From)}
		}
		if !nodeIDs[e.To] {
			return &validationError{fmt.Sprintf("diagram edge references undeclared node %q", e.To)}
		}
	}
	return nil
}

// validationError is a terse, information-free structural validation
// failure (spec §7 "User-visible failure": no internal diagnostics beyond
// what's needed to fix the document).
type validationError struct{ msg string }

func (e *validationError) Error() string { return "tdfcore: " + e.msg }
