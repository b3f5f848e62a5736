// Package xlsx writes schedule tables as Excel workbooks using excelize.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/username/timetable-generator/internal/render"
)

// SheetName is the name of the single timetable sheet
const SheetName = "Timeplan"

const (
	pointsPerCm = 72 / 2.54
	inchPerCm   = 1 / 2.54
	// Excel column width is measured in characters of ~7px at 96 dpi
	charsPerCm = 96 / 2.54 / 7
)

// Backend creates .xlsx workbooks
type Backend struct{}

// NewBackend creates the Excel backend
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the format name
func (b *Backend) Name() string { return "xlsx" }

// Extension returns the file extension
func (b *Backend) Extension() string { return ".xlsx" }

// ContentType returns the MIME type of the documents
func (b *Backend) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// NewDocument creates a workbook with one sized, landscape timetable sheet
func (b *Backend) NewDocument(layout render.Layout) (render.Document, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for c := 0; c < layout.Cols; c++ {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, layout.ColumnWidthCm(c)*charsPerCm); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	for r := 0; r < layout.Rows; r++ {
		if h := layout.RowHeightCm(r); h > 0 {
			if err := f.SetRowHeight(SheetName, r+1, h*pointsPerCm); err != nil {
				return nil, fmt.Errorf("failed to set height of row %d: %w", r+1, err)
			}
		}
	}

	orientation := "portrait"
	if layout.Landscape {
		orientation = "landscape"
	}
	if err := f.SetPageLayout(SheetName, &excelize.PageLayoutOptions{Orientation: &orientation}); err != nil {
		return nil, fmt.Errorf("failed to set page layout: %w", err)
	}

	left, right := layout.MarginLeftCm*inchPerCm, layout.MarginRightCm*inchPerCm
	top, bottom := layout.MarginTopCm*inchPerCm, layout.MarginBottomCm*inchPerCm
	if err := f.SetPageMargins(SheetName, &excelize.PageLayoutMarginsOptions{
		Left:   &left,
		Right:  &right,
		Top:    &top,
		Bottom: &bottom,
	}); err != nil {
		return nil, fmt.Errorf("failed to set page margins: %w", err)
	}

	doc := &Document{
		file:    f,
		layout:  layout,
		regions: make(map[[2]int][2]int),
		styles:  make(map[render.Cell]int),
	}

	// Borders on every cell, like a Word table grid
	base, err := doc.style(render.Cell{})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(layout.Cols, layout.Rows)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, base); err != nil {
		return nil, fmt.Errorf("failed to style table: %w", err)
	}

	return doc, nil
}

// Document is a workbook holding one timetable sheet
type Document struct {
	file    *excelize.File
	layout  render.Layout
	regions map[[2]int][2]int // top-left -> bottom-right (zero-based)
	styles  map[render.Cell]int
}

// File returns the underlying workbook
func (d *Document) File() *excelize.File {
	return d.file
}

// MergeCells merges an inclusive range
func (d *Document) MergeCells(top, left, bottom, right int) error {
	from, err := excelize.CoordinatesToCellName(left+1, top+1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(right+1, bottom+1)
	if err != nil {
		return err
	}

	if err := d.file.MergeCell(SheetName, from, to); err != nil {
		return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
	}
	d.regions[[2]int{top, left}] = [2]int{bottom, right}
	return nil
}

// SetCell writes the value and styles the cell (the whole region when merged)
func (d *Document) SetCell(row, col int, cell render.Cell) error {
	from, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}

	to := from
	if end, ok := d.regions[[2]int{row, col}]; ok {
		if to, err = excelize.CoordinatesToCellName(end[1]+1, end[0]+1); err != nil {
			return err
		}
	}

	if cell.Text != "" {
		if err := d.file.SetCellValue(SheetName, from, cell.Text); err != nil {
			return fmt.Errorf("failed to set %s: %w", from, err)
		}
	}

	styleID, err := d.style(cell)
	if err != nil {
		return err
	}
	if err := d.file.SetCellStyle(SheetName, from, to, styleID); err != nil {
		return fmt.Errorf("failed to style %s:%s: %w", from, to, err)
	}

	return nil
}

func (d *Document) style(cell render.Cell) (int, error) {
	key := cell
	key.Text = ""
	if id, ok := d.styles[key]; ok {
		return id, nil
	}

	size := cell.FontSize
	if size == 0 {
		size = d.layout.DefaultFontSize
	}

	horizontal := "left"
	if cell.Center {
		horizontal = "center"
	}

	style := &excelize.Style{
		Font: &excelize.Font{
			Family: d.layout.FontFamily,
			Size:   size,
			Color:  cell.TextColor,
		},
		Alignment: &excelize.Alignment{
			Horizontal: horizontal,
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	}
	if cell.Fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{cell.Fill}, Pattern: 1}
	}

	id, err := d.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	d.styles[key] = id
	return id, nil
}

// Save writes the workbook
func (d *Document) Save(w io.Writer) error {
	defer d.file.Close()
	return d.file.Write(w)
}
