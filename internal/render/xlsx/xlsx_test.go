package xlsx_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/render/rendertest"
	"github.com/username/timetable-generator/internal/render/xlsx"
	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/internal/timetable"
)

func renderWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	dates, err := schedule.ResolveWeek("35-2023")
	require.NoError(t, err)

	days := make([]schedule.DayColumn, timetable.DaysPerWeek)
	for i := range days {
		days[i] = schedule.DayColumn{Periods: rendertest.Day(timetable.Empty())}
	}
	days[0].Periods[0] = timetable.Single("m", "A201")
	days[3].Periods[2] = timetable.Double("n")
	days[4] = schedule.HolidayColumn("Grunnlovsdagen")

	r := render.NewRenderer(rendertest.Settings(), xlsx.NewBackend(), zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, r.Render(days, dates, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRenderXlsx(t *testing.T) {
	f := renderWorkbook(t)

	assert.Equal(t, []string{xlsx.SheetName}, f.GetSheetList())

	cells := map[string]string{
		"A1": "Viktig info:",
		"B2": "Monday 28.Aug",
		"F2": "Friday 01.Sep",
		"A3": "1\n08:10",
		"A5": "Pause\n09:40-10:00",
		"B3": "Matematikk\nA201",
		"E6": "Naturfag",
		"F3": "Grunnlovsdagen",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(xlsx.SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	merged, err := f.GetMergeCells(xlsx.SheetName)
	require.NoError(t, err)
	var ranges []string
	for _, m := range merged {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"A1:F1", "E6:E7", "F3:F13"}, ranges)
}

func TestRenderXlsxStyles(t *testing.T) {
	f := renderWorkbook(t)

	id, err := f.GetCellStyle(xlsx.SheetName, "B3")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)

	require.NotNil(t, style.Font)
	assert.Equal(t, "Calibri", style.Font.Family)
	assert.Equal(t, float64(9), style.Font.Size)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), "515262")
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.True(t, style.Alignment.WrapText)

	// Every row of the holiday region carries the holiday fill
	id, err = f.GetCellStyle(xlsx.SheetName, "F13")
	require.NoError(t, err)
	style, err = f.GetStyle(id)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), "D9D9D9")
}

func TestRenderXlsxPageSetup(t *testing.T) {
	f := renderWorkbook(t)

	layout, err := f.GetPageLayout(xlsx.SheetName)
	require.NoError(t, err)
	require.NotNil(t, layout.Orientation)
	assert.Equal(t, "landscape", *layout.Orientation)

	h, err := f.GetRowHeight(xlsx.SheetName, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.5*72/2.54, h, 0.1)
}
