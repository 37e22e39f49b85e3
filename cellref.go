package xlmacro

import (
	"fmt"
	"strings"
)

// CellRef represents a single cell reference in a workbook.
type CellRef struct {
	Sheet string // sheet name (empty = active sheet)
	Row   int    // 0-based row index
	Col   int    // 0-based column index
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1", "Sheet1!B5", or "$A$1".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	sheet, cellPart := splitSheet(s)
	cellPart = strings.ReplaceAll(cellPart, "$", "")
	if cellPart == "" {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, row, err := parseCellName(cellPart)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}

	return CellRef{Sheet: sheet, Row: row, Col: col}, nil
}

func splitSheet(s string) (sheet, rest string) {
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		return strings.Trim(s[:idx], "'"), s[idx+1:]
	}
	return "", s
}

// parseCellName parses "A1" into col=0, row=0.
func parseCellName(name string) (col, row int, err error) {
	if len(name) == 0 {
		return 0, 0, fmt.Errorf("empty cell name")
	}

	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, 0, fmt.Errorf("invalid cell name: %q", name)
	}

	col, err = NameToCol(name[:i])
	if err != nil {
		return 0, 0, err
	}

	rowNum := 0
	for _, ch := range name[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("invalid row in cell name: %q", name)
		}
		rowNum = rowNum*10 + int(ch-'0')
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row number in cell name: %q", name)
	}

	return col, rowNum - 1, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	name := c.CellName()
	if c.Sheet != "" {
		return c.Sheet + "!" + name
	}
	return name
}

// CellName returns just the cell part like "A1" without sheet name.
func (c CellRef) CellName() string {
	return ColToName(c.Col) + fmt.Sprintf("%d", c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}

// AreaRef is a rectangular selection. When WholeColumns is set the row
// bounds are open and get resolved against the sheet's used rows.
type AreaRef struct {
	First        CellRef
	Last         CellRef
	WholeColumns bool
}

// ParseAreaRef parses a selection such as "A1:C5", "Sheet1!A2:A200",
// a single cell "B4" or whole columns "A:A". Corners are normalized so that
// First is always the top-left cell.
func ParseAreaRef(s string) (AreaRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AreaRef{}, fmt.Errorf("empty area reference")
	}

	sheet, rest := splitSheet(s)
	rest = strings.ReplaceAll(rest, "$", "")
	parts := strings.SplitN(rest, ":", 2)

	if len(parts) == 1 {
		ref, err := ParseCellRef(parts[0])
		if err != nil {
			return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
		}
		ref.Sheet = sheet
		return AreaRef{First: ref, Last: ref}, nil
	}

	if isColumnName(parts[0]) && isColumnName(parts[1]) {
		c1, err := NameToCol(parts[0])
		if err != nil {
			return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
		}
		c2, err := NameToCol(parts[1])
		if err != nil {
			return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
		}
		if c2 < c1 {
			c1, c2 = c2, c1
		}
		return AreaRef{
			First:        CellRef{Sheet: sheet, Row: 0, Col: c1},
			Last:         CellRef{Sheet: sheet, Row: 0, Col: c2},
			WholeColumns: true,
		}, nil
	}

	first, err := ParseCellRef(parts[0])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	if first.Row > last.Row {
		first.Row, last.Row = last.Row, first.Row
	}
	if first.Col > last.Col {
		first.Col, last.Col = last.Col, first.Col
	}
	first.Sheet, last.Sheet = sheet, sheet
	return AreaRef{First: first, Last: last}, nil
}

func isColumnName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

// String formats the AreaRef as "Sheet1!A1:C5", "A:B" or "A1".
func (a AreaRef) String() string {
	prefix := ""
	if a.First.Sheet != "" {
		prefix = a.First.Sheet + "!"
	}
	if a.WholeColumns {
		return prefix + ColToName(a.First.Col) + ":" + ColToName(a.Last.Col)
	}
	if a.First == a.Last {
		return prefix + a.First.CellName()
	}
	return prefix + a.First.CellName() + ":" + a.Last.CellName()
}

// Size returns the dimensions of the area. Whole-column areas report a
// height of zero until resolved.
func (a AreaRef) Size() Size {
	s := Size{Width: a.Last.Col - a.First.Col + 1}
	if !a.WholeColumns {
		s.Height = a.Last.Row - a.First.Row + 1
	}
	return s
}

// SheetName returns the sheet name of this area.
func (a AreaRef) SheetName() string {
	return a.First.Sheet
}

// WithSheet returns a copy of the area bound to the given sheet.
func (a AreaRef) WithSheet(sheet string) AreaRef {
	a.First.Sheet = sheet
	a.Last.Sheet = sheet
	return a
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// Cells returns the number of cells covered.
func (s Size) Cells() int {
	return s.Width * s.Height
}
