package tdfcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraphBlock(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

func TestDocumentValidateHappyPath(t *testing.T) {
	doc := Document{
		Content: Content{Sections: []Section{
			{ID: "s1", Blocks: []Block{
				{Kind: BlockHeading, Heading: &Heading{Level: 1, Text: "Intro"}},
				paragraphBlock("Hello world[^fn1]."),
				{Kind: BlockFootnote, Footnote: &Footnote{ID: "fn1", Text: "A note."}},
			}},
		}},
	}
	require.NoError(t, doc.Validate())
}

func TestDocumentValidateRejectsDuplicateSectionIDs(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "dup"}, {ID: "dup"},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsEmptySectionID(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{{ID: ""}}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsDanglingFootnoteReference(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{paragraphBlock("See[^missing].")}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateAllowsUnreferencedFootnote(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{
			{Kind: BlockFootnote, Footnote: &Footnote{ID: "fn1", Text: "unused is fine"}},
		}},
	}}}
	assert.NoError(t, doc.Validate())
}

func TestDocumentValidateRejectsFigureWithMissingAsset(t *testing.T) {
	doc := Document{
		Assets: map[string][]byte{},
		Content: Content{Sections: []Section{
			{ID: "s1", Blocks: []Block{{Kind: BlockFigure, Figure: &Figure{Asset: "missing.png"}}}},
		}},
	}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateAcceptsFigureWithPresentAsset(t *testing.T) {
	doc := Document{
		Assets: map[string][]byte{"logo.png": []byte("bytes")},
		Content: Content{Sections: []Section{
			{ID: "s1", Blocks: []Block{{Kind: BlockFigure, Figure: &Figure{Asset: "logo.png"}}}},
		}},
	}
	assert.NoError(t, doc.Validate())
}

func TestDocumentValidateRejectsBadHeadingLevel(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockHeading, Heading: &Heading{Level: 9, Text: "x"}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsTableRowReferencingUndeclaredColumn(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{{ID: "c1", Type: CellText}},
			Rows:    []Row{{Cells: []Cell{{ColumnID: "undeclared"}}}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsTableCellTypeMismatch(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{{ID: "c1", Type: CellNumber}},
			Rows:    []Row{{Cells: []Cell{{ColumnID: "c1", Raw: "not-a-number", Display: "not-a-number"}}}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsNumericCellMissingDisplay(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{{ID: "c1", Type: CellNumber}},
			Rows:    []Row{{Cells: []Cell{{ColumnID: "c1", Raw: "42"}}}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsCurrencyCellWithBadISOCode(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{{ID: "c1", Type: CellCurrency, Currency: "usd"}},
			Rows:    []Row{{Cells: []Cell{{ColumnID: "c1", Raw: "9.99", Display: "$9.99"}}}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateRejectsDateCellWithUnparseableValue(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{{ID: "c1", Type: CellDate}},
			Rows:    []Row{{Cells: []Cell{{ColumnID: "c1", Raw: "not-a-date"}}}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateAcceptsWellTypedTableCells(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockTable, Table: &Table{
			Columns: []Column{
				{ID: "amount", Type: CellCurrency, Currency: "USD"},
				{ID: "when", Type: CellDate},
				{ID: "notes", Type: CellText},
			},
			Rows: []Row{{Cells: []Cell{
				{ColumnID: "amount", Raw: "19.99", Display: "$19.99"},
				{ColumnID: "when", Raw: "2026-01-15"},
				{ColumnID: "notes", Raw: "paid in full"},
			}}},
		}}}},
	}}}
	assert.NoError(t, doc.Validate())
}

func TestDocumentValidateRejectsDiagramEdgeReferencingUndeclaredNode(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockDiagram, Diagram: &Diagram{
			Kind:  DiagramFlowchart,
			Nodes: []DiagramNode{{ID: "n1", Label: "Start"}},
			Edges: []DiagramEdge{{From: "n1", To: "undeclared"}},
		}}}},
	}}}
	assert.Error(t, doc.Validate())
}

func TestDocumentValidateAcceptsWellFormedDiagram(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockDiagram, Diagram: &Diagram{
			Kind:  DiagramFlowchart,
			Nodes: []DiagramNode{{ID: "n1", Label: "Start"}, {ID: "n2", Label: "End"}},
			Edges: []DiagramEdge{{From: "n1", To: "n2", Label: "next"}},
		}}}},
	}}}
	assert.NoError(t, doc.Validate())
}

func TestDocumentValidateRejectsUnknownBlockKind(t *testing.T) {
	doc := Document{Content: Content{Sections: []Section{
		{ID: "s1", Blocks: []Block{{Kind: BlockKind("bogus")}}},
	}}}
	assert.ErrorIs(t, doc.Validate(), ErrUnknownBlockKind)
}
