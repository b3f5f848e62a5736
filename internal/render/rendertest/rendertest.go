// Package rendertest provides renderer fixtures shared by backend tests.
package rendertest

import (
	"io"
	"sync"

	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/timetable"
)

// Settings returns renderer settings matching the default school setup
func Settings() render.Settings {
	return render.Settings{
		Palette: render.Palette{
			Subjects: map[string]string{
				"m":  "Matematikk",
				"n":  "Naturfag",
				"e":  "Engelsk",
				"pt": "Produksjon og tjenester",
			},
			Colors: map[string]render.Colors{
				"Matematikk":              {Text: "#ffffff", Background: "#515262"},
				"Naturfag":                {Text: "#000000", Background: "#c9cca1"},
				"Engelsk":                 {Text: "#ffffff", Background: "#543344"},
				"Produksjon og tjenester": {Text: "#ffffff", Background: "#8ea091"},
			},
			Holiday: render.Colors{Text: "#000000", Background: "#D9D9D9"},
			Accent:  render.Colors{Text: "#ffffff", Background: "#E2EFD9"},
		},
		ClassStart: map[int]string{
			1: "08:10", 2: "08:55", 3: "10:00", 4: "10:45",
			5: "12:00", 6: "12:45", 7: "13:40", 8: "14:25",
		},
		Pauses: map[int]string{
			1: "09:40-10:00", 2: "11:30-12:00", 3: "13:30-13:40",
		},
		Notice:         "Viktig info:",
		Locale:         "en_US",
		TimesColumnCm:  2,
		ClassColumnCm:  5,
		PeriodRowCm:    1.5,
		MarginLeftCm:   0.5,
		MarginRightCm:  0.5,
		MarginTopCm:    0.5,
		MarginBottomCm: 0.5,
		FontFamily:     "Calibri",
	}
}

// Day returns eight periods of the same subject
func Day(p timetable.Period) []timetable.Period {
	day := make([]timetable.Period, timetable.PeriodsPerDay)
	for i := range day {
		day[i] = p
	}
	return day
}

// Recorded is one call made on a Recorder document
type Recorded struct {
	Op                       string // "merge" or "set"
	Top, Left, Bottom, Right int
	Cell                     render.Cell
}

// Recorder is a Backend keeping every call of the last document in memory
type Recorder struct {
	mu    sync.Mutex
	Calls []Recorded
	Saved bool
}

// Name returns the format name
func (r *Recorder) Name() string { return "recorder" }

// Extension returns the file extension
func (r *Recorder) Extension() string { return ".txt" }

// ContentType returns the MIME type
func (r *Recorder) ContentType() string { return "text/plain" }

// NewDocument resets the recording
func (r *Recorder) NewDocument(render.Layout) (render.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
	r.Saved = false
	return &recorderDoc{r: r}, nil
}

// Cell returns the last content set at (row, col)
func (r *Recorder) Cell(row, col int) (render.Cell, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Calls) - 1; i >= 0; i-- {
		c := r.Calls[i]
		if c.Op == "set" && c.Top == row && c.Left == col {
			return c.Cell, true
		}
	}
	return render.Cell{}, false
}

// Merges returns every merged range as [top, left, bottom, right]
func (r *Recorder) Merges() [][4]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][4]int
	for _, c := range r.Calls {
		if c.Op == "merge" {
			out = append(out, [4]int{c.Top, c.Left, c.Bottom, c.Right})
		}
	}
	return out
}

type recorderDoc struct {
	r *Recorder
}

func (d *recorderDoc) MergeCells(top, left, bottom, right int) error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()
	d.r.Calls = append(d.r.Calls, Recorded{Op: "merge", Top: top, Left: left, Bottom: bottom, Right: right})
	return nil
}

func (d *recorderDoc) SetCell(row, col int, cell render.Cell) error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()
	d.r.Calls = append(d.r.Calls, Recorded{Op: "set", Top: row, Left: col, Bottom: row, Right: col, Cell: cell})
	return nil
}

func (d *recorderDoc) Save(w io.Writer) error {
	d.r.mu.Lock()
	d.r.Saved = true
	d.r.mu.Unlock()
	_, err := io.WriteString(w, "schedule")
	return err
}
