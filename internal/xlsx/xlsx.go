// Package xlsx reads and writes a minimal subset of the OOXML spreadsheet
// package format: a zip archive holding a workbook descriptor, relationship
// parts, an optional shared-string table, and one XML part per worksheet.
//
// The package deals only in grids of primitive cell values. It knows nothing
// about quiz content; column meanings live with the callers.
package xlsx

import "fmt"

// CellKind discriminates the closed set of cell value variants.
type CellKind int

const (
	// CellAbsent marks a position with no value. Absent cells are omitted
	// from written rows and never round-trip as empty strings.
	CellAbsent CellKind = iota
	CellText
	CellBool
)

// Cell is a single spreadsheet value: text, boolean, or absent.
// Numeric source cells surface as their raw text representation.
type Cell struct {
	Kind CellKind
	Text string
	Bool bool
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// Absent returns the empty cell placeholder.
func Absent() Cell { return Cell{Kind: CellAbsent} }

// IsAbsent reports whether the cell carries no value.
func (c Cell) IsAbsent() bool { return c.Kind == CellAbsent }

// String renders the cell for header matching and field extraction.
// Booleans render as "true"/"false"; absent cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Row is a dense slice of cells; index i holds column i+1. Rows are only as
// long as their right-most populated cell, so callers must treat positions
// past the end as absent.
type Row []Cell

// Cell returns the value at the 1-based column, or an absent cell when the
// row is shorter than the requested position.
func (r Row) Cell(col int) Cell {
	if col < 1 || col > len(r) {
		return Absent()
	}
	return r[col-1]
}

// Grid is an ordered sequence of rows. Row 0 is the header by convention,
// but the codec itself attaches no meaning to it.
type Grid []Row

// Sheet pairs a display name with its grid.
type Sheet struct {
	Name string
	Rows Grid
}

// Workbook is the result of reading a package: sheets in declaration order.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the grid for an exact display name.
func (wb *Workbook) Sheet(name string) (Grid, bool) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s.Rows, true
		}
	}
	return nil, false
}

// FormatError reports an unreadable package: the bytes are not a zip
// archive, the workbook descriptor is missing, or the descriptor references
// a relationship that does not exist. Anything less severe degrades to a
// warning at a higher layer instead of failing the read.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workbook format: %s: %v", e.Reason, e.Err)
	}
	return "workbook format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}
