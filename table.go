package tdfcore

// CellType enumerates the typed cell kinds a table column declares (spec
// §3.3: "text, number, currency with ISO-4217 code, percentage, date").
type CellType string

const (
	CellText       CellType = "text"
	CellNumber     CellType = "number"
	CellCurrency   CellType = "currency"
	CellPercentage CellType = "percentage"
	CellDate       CellType = "date"
)

// Column declares one table column's id and typed kind.
type Column struct {
	ID       string   `cbor:"1,keyasint"`
	Label    string   `cbor:"2,keyasint"`
	Type     CellType `cbor:"3,keyasint"`
	Currency string   `cbor:"4,keyasint,omitempty"` // ISO-4217 code, CellCurrency only
}

// Cell carries both a raw value and a display string; the display string
// is never authoritative for semantics (spec §4.3 "Validation").
type Cell struct {
	ColumnID string  `cbor:"1,keyasint"`
	Raw      string  `cbor:"2,keyasint"` // canonical machine-readable form
	Display  string  `cbor:"3,keyasint"`
}

// Row addresses its cells by column id; a row must reference only declared
// columns (spec §4.3 invariant).
type Row struct {
	Cells []Cell `cbor:"1,keyasint"`
}

// Table is a column/row block with typed cells and an optional footer row.
type Table struct {
	Columns []Column `cbor:"1,keyasint"`
	Rows    []Row    `cbor:"2,keyasint"`
	Footer  *Row     `cbor:"3,keyasint,omitempty"`
}
