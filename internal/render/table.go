package render

import (
	"errors"
	"fmt"
)

// ErrRenderLayout is returned for a merge that leaves the table or
// touches an already merged cell
var ErrRenderLayout = errors.New("render layout error")

// table tracks merged regions on top of a Document so that overlapping
// or out-of-range merges fail the same way for every backend
type table struct {
	doc    Document
	rows   int
	cols   int
	region [][]int // 0 = unmerged, otherwise merge id
	merges int
}

func newTable(doc Document, rows, cols int) *table {
	region := make([][]int, rows)
	for i := range region {
		region[i] = make([]int, cols)
	}
	return &table{doc: doc, rows: rows, cols: cols, region: region}
}

func (t *table) inBounds(row, col int) bool {
	return row >= 0 && row < t.rows && col >= 0 && col < t.cols
}

func (t *table) merge(top, left, bottom, right int) error {
	if !t.inBounds(top, left) || !t.inBounds(bottom, right) || bottom < top || right < left {
		return fmt.Errorf("%w: range (%d,%d)-(%d,%d) outside %dx%d table",
			ErrRenderLayout, top, left, bottom, right, t.rows, t.cols)
	}

	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			if t.region[r][c] != 0 {
				return fmt.Errorf("%w: cell (%d,%d) is already merged", ErrRenderLayout, r, c)
			}
		}
	}

	t.merges++
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			t.region[r][c] = t.merges
		}
	}

	return t.doc.MergeCells(top, left, bottom, right)
}

func (t *table) set(row, col int, cell Cell) error {
	if !t.inBounds(row, col) {
		return fmt.Errorf("%w: cell (%d,%d) outside %dx%d table", ErrRenderLayout, row, col, t.rows, t.cols)
	}
	return t.doc.SetCell(row, col, cell)
}
