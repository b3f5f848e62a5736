// Package docx writes schedule tables as Word (.docx) documents.
package docx

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gomutex/godocx"
	godocxdoc "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"

	"github.com/username/timetable-generator/internal/render"
)

const (
	twipsPerCm = 1440 / 2.54

	// A4 in twips
	a4ShortSide = 11906
	a4LongSide  = 16838

	headerFooterTwips = 708
)

// Backend creates .docx documents
type Backend struct{}

// NewBackend creates the Word backend
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the format name
func (b *Backend) Name() string { return "docx" }

// Extension returns the file extension
func (b *Backend) Extension() string { return ".docx" }

// ContentType returns the MIME type of the documents
func (b *Backend) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// NewDocument starts an empty table document
func (b *Backend) NewDocument(layout render.Layout) (render.Document, error) {
	if layout.Rows <= 0 || layout.Cols <= 0 {
		return nil, fmt.Errorf("invalid table size %dx%d", layout.Rows, layout.Cols)
	}

	cells := make([][]cellState, layout.Rows)
	for i := range cells {
		cells[i] = make([]cellState, layout.Cols)
		for j := range cells[i] {
			cells[i][j] = cellState{rowSpan: 1, colSpan: 1}
		}
	}

	return &Document{layout: layout, cells: cells}, nil
}

type cellState struct {
	cell    render.Cell
	rowSpan int
	colSpan int
	// covered cells belong to the merge region anchored at (anchorRow, anchorCol)
	covered   bool
	anchorRow int
	anchorCol int
}

// Document is a single-table Word document. Merges and cell contents are
// collected first; the godocx tree is built on Save.
type Document struct {
	layout render.Layout
	cells  [][]cellState
}

// MergeCells merges an inclusive rectangular range into its top-left cell
func (d *Document) MergeCells(top, left, bottom, right int) error {
	if top < 0 || left < 0 || bottom >= d.layout.Rows || right >= d.layout.Cols || bottom < top || right < left {
		return fmt.Errorf("merge range (%d,%d)-(%d,%d) out of bounds", top, left, bottom, right)
	}

	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			s := d.cells[r][c]
			if s.covered || s.rowSpan > 1 || s.colSpan > 1 {
				return fmt.Errorf("cell (%d,%d) is already merged", r, c)
			}
		}
	}

	d.cells[top][left].rowSpan = bottom - top + 1
	d.cells[top][left].colSpan = right - left + 1
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			if r == top && c == left {
				continue
			}
			d.cells[r][c].covered = true
			d.cells[r][c].anchorRow = top
			d.cells[r][c].anchorCol = left
		}
	}

	return nil
}

// SetCell sets the content of a cell; writing into a merged region sets the region
func (d *Document) SetCell(row, col int, cell render.Cell) error {
	if row < 0 || col < 0 || row >= d.layout.Rows || col >= d.layout.Cols {
		return fmt.Errorf("cell (%d,%d) out of bounds", row, col)
	}

	s := &d.cells[row][col]
	if s.covered {
		s = &d.cells[s.anchorRow][s.anchorCol]
	}
	s.cell = cell
	return nil
}

// Save builds the Word document and writes the .docx package
func (d *Document) Save(w io.Writer) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create docx document: %w", err)
	}

	d.buildTable(doc)

	// A body must end with a paragraph after a table
	doc.AddEmptyParagraph()
	doc.Document.Body.SectPr = d.section()

	if err := doc.Write(w); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}
	return nil
}

func twips(cm float64) int {
	return int(cm*twipsPerCm + 0.5)
}

// hexColor converts "#RRGGBB" to the "RRGGBB" form Word expects
func hexColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(c, "#"))
}

func (d *Document) buildTable(doc *godocxdoc.RootDoc) {
	l := d.layout

	tbl := doc.AddTable()
	tbl.Width(0, stypes.TableWidthAuto)
	tbl.Layout(stypes.TableLayoutFixed)

	border := func() *ctypes.Border {
		color := "000000"
		space := "0"
		size := 4
		return &ctypes.Border{Val: stypes.BorderStyleSingle, Color: &color, Space: &space, Size: &size}
	}
	tbl.GetCT().TableProp.Borders = &ctypes.TableBorders{
		Top: border(), Left: border(), Bottom: border(), Right: border(),
		InsideH: border(), InsideV: border(),
	}

	widths := make([]uint64, l.Cols)
	for c := range widths {
		widths[c] = uint64(twips(l.ColumnWidthCm(c)))
	}
	tbl.Grid(widths...)

	for r := 0; r < l.Rows; r++ {
		row := tbl.AddRow()
		rowCT := tbl.GetCT().RowContents[r].Row
		if h := l.RowHeightCm(r); h > 0 {
			rowCT.Property.Height = ctypes.NewTableRowHeight(twips(h), stypes.HeightRuleAtLeast)
		}

		for c := 0; c < l.Cols; c++ {
			s := d.cells[r][c]
			anchor := s
			continuation := false
			if s.covered {
				// gridSpan on the anchor already covers the columns to its right
				if s.anchorCol != c {
					continue
				}
				anchor = d.cells[s.anchorRow][s.anchorCol]
				continuation = true
			}

			cell := row.AddCell()
			cellCT := rowCT.Contents[len(rowCT.Contents)-1].Cell
			d.writeCell(cell, cellCT, c, anchor, continuation)
		}
	}
}

// writeCell fills one <w:tc>. Vertically covered cells become vMerge
// continuation cells with an empty paragraph.
func (d *Document) writeCell(cell *godocxdoc.Cell, ct *ctypes.Cell, col int, anchor cellState, continuation bool) {
	width := 0.0
	for i := 0; i < anchor.colSpan; i++ {
		width += d.layout.ColumnWidthCm(col + i)
	}
	cell.Width(twips(width), stypes.TableWidthDxa)

	if anchor.colSpan > 1 {
		cell.ColSpan(anchor.colSpan)
	}
	if anchor.rowSpan > 1 {
		if continuation {
			ct.Property.VMerge = &ctypes.GenOptStrVal[stypes.MergeCell]{}
		} else {
			ct.Property.VMerge = ctypes.NewGenOptStrVal(stypes.MergeCellRestart)
		}
	}
	if anchor.cell.Fill != "" {
		cell.BackgroundColor(hexColor(anchor.cell.Fill))
	}
	cell.VerticalAlign("center")

	if continuation {
		cell.AddEmptyPara()
		return
	}
	d.writeParagraph(cell, anchor.cell)
}

func (d *Document) writeParagraph(cell *godocxdoc.Cell, content render.Cell) {
	p := cell.AddEmptyPara()
	if content.Center {
		p.Justification(stypes.JustificationCenter)
	}
	if content.Text == "" {
		return
	}

	size := content.FontSize
	if size == 0 {
		size = d.layout.DefaultFontSize
	}

	var prev *godocxdoc.Run
	for _, line := range strings.Split(content.Text, "\n") {
		if prev != nil {
			prev.AddBreak(nil)
		}
		run := p.AddText(line)
		if d.layout.FontFamily != "" {
			run.Font(d.layout.FontFamily)
		}
		if content.TextColor != "" {
			run.Color(hexColor(content.TextColor))
		}
		if size > 0 {
			run.Size(uint64(math.Round(size)))
		}
		prev = run
	}
}

func (d *Document) section() *ctypes.SectionProp {
	l := d.layout

	width, height := uint64(a4ShortSide), uint64(a4LongSide)
	orient := stypes.PageOrientPortrait
	if l.Landscape {
		width, height = a4LongSide, a4ShortSide
		orient = stypes.PageOrientLandscape
	}

	top, right := twips(l.MarginTopCm), twips(l.MarginRightCm)
	bottom, left := twips(l.MarginBottomCm), twips(l.MarginLeftCm)
	header, footer, gutter := headerFooterTwips, headerFooterTwips, 0

	sect := ctypes.NewSectionProper()
	sect.PageSize = &ctypes.PageSize{Width: &width, Height: &height, Orient: orient}
	sect.PageMargin = &ctypes.PageMargin{
		Top: &top, Right: &right, Bottom: &bottom, Left: &left,
		Header: &header, Footer: &footer, Gutter: &gutter,
	}
	return sect
}
