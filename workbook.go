package xlmacro

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook is the cell surface macros read from and write to. It wraps an
// excelize file and batches writes into contiguous runs.
type Workbook struct {
	file *excelize.File

	fillCache map[fillKey]int // base style + colour → derived style ID

	mu sync.Mutex
}

type fillKey struct {
	base  int
	color string
}

// NewWorkbook wraps an already opened excelize file.
func NewWorkbook(f *excelize.File) *Workbook {
	return &Workbook{
		file:      f,
		fillCache: make(map[fillKey]int),
	}
}

// OpenWorkbook opens an xlsx file from disk.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return NewWorkbook(f), nil
}

// OpenWorkbookReader opens an xlsx document from a reader.
func OpenWorkbookReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook reader: %w", err)
	}
	return NewWorkbook(f), nil
}

// ActiveSheet returns the name of the sheet that was active when the
// workbook was saved.
func (wb *Workbook) ActiveSheet() string {
	return wb.file.GetSheetName(wb.file.GetActiveSheetIndex())
}

// Selection returns the first range of the active sheet's saved selection,
// the file equivalent of the user's current selection.
func (wb *Workbook) Selection() (AreaRef, error) {
	sheet := wb.ActiveSheet()
	panes, err := wb.file.GetPanes(sheet)
	if err != nil {
		return AreaRef{}, fmt.Errorf("read selection of sheet %q: %w", sheet, err)
	}
	for _, sel := range panes.Selection {
		ref := strings.TrimSpace(sel.SQRef)
		if ref == "" {
			ref = strings.TrimSpace(sel.ActiveCell)
		}
		if ref == "" {
			continue
		}
		area, err := ParseAreaRef(strings.Fields(ref)[0])
		if err != nil {
			return AreaRef{}, fmt.Errorf("saved selection of sheet %q: %w", sheet, err)
		}
		return area.WithSheet(sheet), nil
	}
	return AreaRef{}, &UsageError{Err: ErrNoSelection, Detail: fmt.Sprintf("sheet %q has no saved selection", sheet)}
}

// ResolveArea binds an area to a sheet (the active one when unnamed),
// checks the sheet exists and turns whole-column selections into concrete
// row bounds using the sheet's used rows.
func (wb *Workbook) ResolveArea(area AreaRef) (AreaRef, error) {
	sheet := area.SheetName()
	if sheet == "" {
		sheet = wb.ActiveSheet()
		area = area.WithSheet(sheet)
	}
	if idx, err := wb.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return AreaRef{}, &UsageError{Err: ErrNoSelection, Detail: fmt.Sprintf("sheet %q not found", sheet)}
	}
	if !area.WholeColumns {
		return area, nil
	}

	rows, err := wb.file.GetRows(sheet)
	if err != nil {
		return AreaRef{}, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	area.WholeColumns = false
	area.First.Row = 0
	area.Last.Row = len(rows) - 1
	return area, nil
}

// ReadArea returns the raw text of every cell in a resolved area, row by
// row. Cells past the end of the stored data read as empty strings.
func (wb *Workbook) ReadArea(area AreaRef) ([][]string, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	sheet := area.SheetName()
	rows, err := wb.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}

	size := area.Size()
	values := make([][]string, size.Height)
	for r := 0; r < size.Height; r++ {
		values[r] = make([]string, size.Width)
		rowIdx := area.First.Row + r
		if rowIdx >= len(rows) {
			continue
		}
		for c := 0; c < size.Width; c++ {
			colIdx := area.First.Col + c
			if colIdx < len(rows[rowIdx]) {
				values[r][c] = rows[rowIdx][colIdx]
			}
		}
	}
	return values, nil
}

// WriteArea writes updated values back into the area. Only cells whose
// value differs from original are written, so untouched cells keep their
// type. Contiguous changed cells of a column go out in one call. It returns
// the number of cells written.
func (wb *Workbook) WriteArea(area AreaRef, original, updated [][]string) (int, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	sheet := area.SheetName()
	size := area.Size()
	written := 0

	for c := 0; c < size.Width; c++ {
		start := -1
		var run []any
		flush := func() error {
			if start < 0 {
				return nil
			}
			cell := NewCellRef(sheet, area.First.Row+start, area.First.Col+c).CellName()
			if err := wb.file.SetSheetCol(sheet, cell, &run); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
			written += len(run)
			start, run = -1, nil
			return nil
		}

		for r := 0; r < size.Height; r++ {
			if cellAt(updated, r, c) == cellAt(original, r, c) {
				if err := flush(); err != nil {
					return written, err
				}
				continue
			}
			if start < 0 {
				start = r
			}
			run = append(run, cellAt(updated, r, c))
		}
		if err := flush(); err != nil {
			return written, err
		}
	}
	return written, nil
}

func cellAt(grid [][]string, r, c int) string {
	if r < len(grid) && c < len(grid[r]) {
		return grid[r][c]
	}
	return ""
}

// NoFill in a SetBackgrounds colour grid clears the cell's fill.
const NoFill = "none"

// SetBackgrounds fills cells with the colour given at the same position in
// colors; an empty colour leaves the cell's style alone and NoFill removes
// any fill. The cell's existing style is kept and only its fill is replaced. Contiguous cells of a column
// that end up with the same style are styled in one call.
func (wb *Workbook) SetBackgrounds(area AreaRef, colors [][]string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	sheet := area.SheetName()
	size := area.Size()

	for c := 0; c < size.Width; c++ {
		start, styleID := -1, 0
		flush := func(end int) error {
			if start < 0 {
				return nil
			}
			top := NewCellRef(sheet, area.First.Row+start, area.First.Col+c).CellName()
			bottom := NewCellRef(sheet, area.First.Row+end, area.First.Col+c).CellName()
			if err := wb.file.SetCellStyle(sheet, top, bottom, styleID); err != nil {
				return fmt.Errorf("style %s!%s:%s: %w", sheet, top, bottom, err)
			}
			start = -1
			return nil
		}

		for r := 0; r < size.Height; r++ {
			color := cellAt(colors, r, c)
			if color == "" {
				if err := flush(r - 1); err != nil {
					return err
				}
				continue
			}
			cell := NewCellRef(sheet, area.First.Row+r, area.First.Col+c).CellName()
			base, err := wb.file.GetCellStyle(sheet, cell)
			if err != nil {
				return fmt.Errorf("read style of %s!%s: %w", sheet, cell, err)
			}
			id, err := wb.fillStyle(base, color)
			if err != nil {
				return err
			}
			if start >= 0 && id != styleID {
				if err := flush(r - 1); err != nil {
					return err
				}
			}
			if start < 0 {
				start, styleID = r, id
			}
		}
		if err := flush(size.Height - 1); err != nil {
			return err
		}
	}
	return nil
}

// fillStyle returns a style identical to base except for a solid fill, or
// for no fill at all when color is NoFill.
func (wb *Workbook) fillStyle(base int, color string) (int, error) {
	key := fillKey{base: base, color: strings.ToUpper(strings.TrimPrefix(color, "#"))}
	if id, ok := wb.fillCache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if existing, err := wb.file.GetStyle(base); err == nil && existing != nil {
		style = existing
	}
	if strings.EqualFold(key.color, NoFill) {
		style.Fill = excelize.Fill{}
	} else {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{key.color}}
	}

	id, err := wb.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create fill style %s: %w", key.color, err)
	}
	wb.fillCache[key] = id
	return id, nil
}

// SetHyperlink attaches an external hyperlink to a cell.
func (wb *Workbook) SetHyperlink(ref CellRef, url string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if err := wb.file.SetCellHyperLink(ref.Sheet, ref.CellName(), url, "External"); err != nil {
		return fmt.Errorf("hyperlink %s: %w", ref, err)
	}
	return nil
}

// Write writes the workbook to w.
func (wb *Workbook) Write(w io.Writer) error {
	return wb.file.Write(w)
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// Close releases the underlying excelize file.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

