package render

import "io"

// Cell is the content and look of one table cell (or merged region)
type Cell struct {
	Text      string
	FontSize  float64 // points
	TextColor string  // "#RRGGBB", empty for default
	Fill      string  // "#RRGGBB", empty for none
	Center    bool    // horizontal centering; vertical centering is always applied
}

// Layout describes the page and the fixed table of a schedule document
type Layout struct {
	Rows            int
	Cols            int
	TimesColumnCm   float64
	ClassColumnCm   float64
	PeriodRowCm     float64
	PeriodRows      []int
	MarginLeftCm    float64
	MarginRightCm   float64
	MarginTopCm     float64
	MarginBottomCm  float64
	FontFamily      string
	Landscape       bool
	DefaultFontSize float64
}

// ColumnWidthCm returns the width of a table column
func (l Layout) ColumnWidthCm(col int) float64 {
	if col == 0 {
		return l.TimesColumnCm
	}
	return l.ClassColumnCm
}

// RowHeightCm returns the fixed height of a row, 0 for automatic
func (l Layout) RowHeightCm(row int) float64 {
	for _, r := range l.PeriodRows {
		if r == row {
			return l.PeriodRowCm
		}
	}
	return 0
}

// Document is a table document under construction. Coordinates are
// zero-based (row, col); merge ranges are inclusive.
type Document interface {
	MergeCells(top, left, bottom, right int) error
	SetCell(row, col int, cell Cell) error
	Save(w io.Writer) error
}

// Backend creates documents of one file format
type Backend interface {
	Name() string
	Extension() string
	ContentType() string
	NewDocument(layout Layout) (Document, error)
}
