package docx_test

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/render/docx"
	"github.com/username/timetable-generator/internal/render/rendertest"
	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/internal/timetable"
)

// readPart returns the content of one part of a .docx package
func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}

	t.Fatalf("part %s not found", name)
	return ""
}

func assertWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func renderWeek(t *testing.T) string {
	t.Helper()
	dates, err := schedule.ResolveWeek("35-2023")
	require.NoError(t, err)

	days := make([]schedule.DayColumn, timetable.DaysPerWeek)
	for i := range days {
		days[i] = schedule.DayColumn{Periods: rendertest.Day(timetable.Single("m"))}
	}
	days[1].Periods[0] = timetable.Double("e")
	days[1].Periods[1] = timetable.Empty()
	days[2] = schedule.HolidayColumn("Inneklemt dag")

	r := render.NewRenderer(rendertest.Settings(), docx.NewBackend(), zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, r.Render(days, dates, &buf))

	return readPart(t, buf.Bytes(), "word/document.xml")
}

func TestRenderDocx(t *testing.T) {
	doc := renderWeek(t)
	assertWellFormed(t, doc)

	assert.Equal(t, 13, strings.Count(doc, "<w:tr>"))
	assert.Contains(t, doc, `<w:gridSpan w:val="6">`, "notice row spans the table")
	assert.Contains(t, doc, `<w:vMerge w:val="restart">`)
	assert.Contains(t, doc, `<w:tblLayout w:type="fixed"`)
	assert.Contains(t, doc, `w:orient="landscape"`)
	assert.Contains(t, doc, `<w:pgSz w:w="16838" w:h="11906"`)
	assert.Contains(t, doc, `w:fill="D9D9D9"`)
	assert.Contains(t, doc, `w:fill="515262"`)
	assert.Contains(t, doc, `<w:rFonts w:ascii="Calibri"`)
	assert.Contains(t, doc, `<w:sz w:val="18">`, "9pt period text")
	assert.Contains(t, doc, "<w:br", "label lines are separated by breaks")

	for _, text := range []string{"Viktig info:", "Monday 28.Aug", "Matematikk", "Engelsk", "Inneklemt dag", "09:40-10:00"} {
		assert.Contains(t, doc, text)
	}
}

func TestDocxPackage(t *testing.T) {
	d, err := docx.NewBackend().NewDocument(render.Layout{Rows: 1, Cols: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))

	types := readPart(t, buf.Bytes(), "[Content_Types].xml")
	assert.Contains(t, types, "/word/document.xml")
	rels := readPart(t, buf.Bytes(), "_rels/.rels")
	assert.Contains(t, rels, `Target="word/document.xml"`)
}

func TestDocxMergeCells(t *testing.T) {
	layout := render.Layout{Rows: 4, Cols: 3, TimesColumnCm: 2, ClassColumnCm: 5}

	tests := []struct {
		name                     string
		top, left, bottom, right int
		wantErr                  bool
	}{
		{"inside", 1, 1, 2, 2, false},
		{"past last row", 3, 0, 4, 0, true},
		{"negative", -1, 0, 0, 0, true},
		{"inverted", 2, 0, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := docx.NewBackend().NewDocument(layout)
			require.NoError(t, err)
			err = d.MergeCells(tt.top, tt.left, tt.bottom, tt.right)
			if (err != nil) != tt.wantErr {
				t.Errorf("MergeCells(%d,%d,%d,%d) error = %v, wantErr %v", tt.top, tt.left, tt.bottom, tt.right, err, tt.wantErr)
			}
		})
	}

	t.Run("overlap", func(t *testing.T) {
		d, err := docx.NewBackend().NewDocument(layout)
		require.NoError(t, err)
		require.NoError(t, d.MergeCells(0, 0, 1, 1))
		assert.Error(t, d.MergeCells(1, 1, 2, 1))
	})

	t.Run("set covered cell writes the region", func(t *testing.T) {
		d, err := docx.NewBackend().NewDocument(layout)
		require.NoError(t, err)
		require.NoError(t, d.MergeCells(1, 2, 3, 2))
		require.NoError(t, d.SetCell(3, 2, render.Cell{Text: "Ferie"}))

		var buf bytes.Buffer
		require.NoError(t, d.Save(&buf))
		doc := readPart(t, buf.Bytes(), "word/document.xml")
		assertWellFormed(t, doc)
		assert.Equal(t, 1, strings.Count(doc, "Ferie"))
		assert.Equal(t, 1, strings.Count(doc, `<w:vMerge w:val="restart">`))
		assert.Equal(t, 2, strings.Count(doc, "<w:vMerge></w:vMerge>"))
	})
}

func TestNewDocumentInvalidSize(t *testing.T) {
	_, err := docx.NewBackend().NewDocument(render.Layout{})
	assert.Error(t, err)
}
