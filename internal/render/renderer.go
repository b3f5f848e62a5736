package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/internal/timetable"
)

// Fixed table geometry: notice row, date header row, then eight period rows
// with a pause row after every second period.
const (
	tableRows = 13
	tableCols = 6

	noticeRow = 0
	headerRow = 1
	timesCol  = 0

	labelFontSize  = 9
	periodFontSize = 9
	headerFontSize = 11
)

var (
	periodRows = []int{2, 3, 5, 6, 8, 9, 11, 12}
	pauseRows  = map[int]int{1: 4, 2: 7, 3: 10}
)

// Settings is the immutable configuration of a Renderer
type Settings struct {
	Palette    Palette
	ClassStart map[int]string // period number (1-8) -> start time
	Pauses     map[int]string // pause number (1-3) -> time range
	Notice     string         // text of the merged top row
	Locale     string         // date locale, e.g. "nb_NO"

	TimesColumnCm  float64
	ClassColumnCm  float64
	PeriodRowCm    float64
	MarginLeftCm   float64
	MarginRightCm  float64
	MarginTopCm    float64
	MarginBottomCm float64
	FontFamily     string
}

// Renderer turns merged school days into a schedule document
type Renderer struct {
	settings Settings
	backend  Backend
	logger   *zap.Logger
}

// NewRenderer creates a renderer writing documents with the given backend
func NewRenderer(settings Settings, backend Backend, logger *zap.Logger) *Renderer {
	return &Renderer{
		settings: settings,
		backend:  backend,
		logger:   logger,
	}
}

// Backend returns the document backend
func (r *Renderer) Backend() Backend {
	return r.backend
}

// Palette returns the subject palette
func (r *Renderer) Palette() Palette {
	return r.settings.Palette
}

func (r *Renderer) layout() Layout {
	s := r.settings
	return Layout{
		Rows:            tableRows,
		Cols:            tableCols,
		TimesColumnCm:   s.TimesColumnCm,
		ClassColumnCm:   s.ClassColumnCm,
		PeriodRowCm:     s.PeriodRowCm,
		PeriodRows:      periodRows,
		MarginLeftCm:    s.MarginLeftCm,
		MarginRightCm:   s.MarginRightCm,
		MarginTopCm:     s.MarginTopCm,
		MarginBottomCm:  s.MarginBottomCm,
		FontFamily:      s.FontFamily,
		Landscape:       true,
		DefaultFontSize: headerFontSize,
	}
}

// Render builds the schedule for one week and writes it to w.
// Nothing is written when rendering fails.
func (r *Renderer) Render(days []schedule.DayColumn, dates schedule.DateRange, w io.Writer) error {
	if len(dates) != timetable.DaysPerWeek || len(days) != len(dates) {
		return fmt.Errorf("%w: %d days for %d dates", schedule.ErrMalformedDateRange, len(days), len(dates))
	}

	doc, err := r.backend.NewDocument(r.layout())
	if err != nil {
		return fmt.Errorf("failed to create %s document: %w", r.backend.Name(), err)
	}
	t := newTable(doc, tableRows, tableCols)

	if err := r.renderFrame(t); err != nil {
		return err
	}
	if err := r.renderDates(t, dates); err != nil {
		return err
	}

	for i, day := range days {
		if err := r.renderDay(t, i+1, day); err != nil {
			return fmt.Errorf("%s: %w", dates[i].Format("2006-01-02"), err)
		}
	}

	if err := doc.Save(w); err != nil {
		return fmt.Errorf("failed to save %s document: %w", r.backend.Name(), err)
	}

	r.logger.Debug("Schedule rendered",
		zap.String("format", r.backend.Name()),
		zap.Time("week_start", dates[0]))

	return nil
}

// renderFrame fills the notice row, header shading and the times column
func (r *Renderer) renderFrame(t *table) error {
	accent := r.settings.Palette.Accent

	if err := t.merge(noticeRow, 0, noticeRow, tableCols-1); err != nil {
		return err
	}
	if err := t.set(noticeRow, 0, Cell{Text: r.settings.Notice, FontSize: headerFontSize}); err != nil {
		return err
	}

	if err := t.set(headerRow, timesCol, Cell{Fill: accent.Background}); err != nil {
		return err
	}

	for n := 1; n <= len(pauseRows); n++ {
		cell := Cell{
			Text:     "Pause\n" + r.settings.Pauses[n],
			FontSize: labelFontSize,
			Fill:     accent.Background,
			Center:   true,
		}
		if err := t.set(pauseRows[n], timesCol, cell); err != nil {
			return err
		}
	}

	for i, row := range periodRows {
		n := i + 1
		cell := Cell{
			Text:     fmt.Sprintf("%d\n%s", n, r.settings.ClassStart[n]),
			FontSize: labelFontSize,
			Center:   true,
		}
		if err := t.set(row, timesCol, cell); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) renderDates(t *table, dates schedule.DateRange) error {
	accent := r.settings.Palette.Accent
	for i, date := range dates {
		cell := Cell{
			Text:     FormatDate(date, r.settings.Locale),
			FontSize: headerFontSize,
			Fill:     accent.Background,
			Center:   true,
		}
		if err := t.set(headerRow, i+1, cell); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderDay(t *table, col int, day schedule.DayColumn) error {
	if day.IsOff {
		return r.renderHoliday(t, col, day.Holiday)
	}

	if len(day.Periods) != len(periodRows) {
		return fmt.Errorf("%w: %d periods, want %d", schedule.ErrMalformedGrid, len(day.Periods), len(periodRows))
	}

	// A day-off entry in the first period marks the whole day
	if first := day.Periods[0]; first.Kind == timetable.PeriodDayOff {
		return r.renderHoliday(t, col, first.Description)
	}

	continues := -1
	for i, period := range day.Periods {
		row := periodRows[i]

		if i == continues {
			// A double may also be written out in its second slot
			if !period.IsEmpty() && !period.Equal(day.Periods[i-1]) {
				return fmt.Errorf("%w: period %d (%s) overlaps the double period before it",
					ErrRenderLayout, i+1, period)
			}
			continue
		}

		switch period.Kind {
		case timetable.PeriodEmpty:
			continue

		case timetable.PeriodDayOff:
			holiday := r.settings.Palette.Holiday
			if err := t.set(row, col, Cell{
				Text:      period.Description,
				FontSize:  periodFontSize,
				TextColor: holiday.Text,
				Fill:      holiday.Background,
				Center:    true,
			}); err != nil {
				return err
			}
			continue

		case timetable.PeriodDouble:
			if i+1 >= len(periodRows) {
				return fmt.Errorf("%w: double period %s in period %d has no following period",
					ErrRenderLayout, period, i+1)
			}
			if err := t.merge(row, col, periodRows[i+1], col); err != nil {
				return fmt.Errorf("period %d: %w", i+1, err)
			}
			continues = i + 1
		}

		name, colors, err := r.settings.Palette.Resolve(period.Subject)
		if err != nil {
			return fmt.Errorf("period %d: %w", i+1, err)
		}

		if err := t.set(row, col, Cell{
			Text:      strings.Join(append([]string{name}, period.Notes...), "\n"),
			FontSize:  periodFontSize,
			TextColor: colors.Text,
			Fill:      colors.Background,
			Center:    true,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) renderHoliday(t *table, col int, description string) error {
	first, last := periodRows[0], periodRows[len(periodRows)-1]
	if err := t.merge(first, col, last, col); err != nil {
		return err
	}

	holiday := r.settings.Palette.Holiday
	return t.set(first, col, Cell{
		Text:      description,
		FontSize:  periodFontSize,
		TextColor: holiday.Text,
		Fill:      holiday.Background,
		Center:    true,
	})
}

// FormatDate formats a header date as "<Weekday> 02.<Mon>" in the locale
// ("Mandag 28.aug" for nb_NO)
func FormatDate(date time.Time, locale string) string {
	loc := monday.Locale(locale)
	weekday := monday.Format(date, "Monday", loc)

	caser := cases.Title(language.Make(strings.ReplaceAll(locale, "_", "-")))
	return caser.String(weekday) + " " + monday.Format(date, "02.Jan", loc)
}
