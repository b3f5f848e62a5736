package timetable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrDataLoad is returned when the data file is missing, unreadable or invalid
var ErrDataLoad = errors.New("data load failed")

// dayOffLayout is the date format of skoleruta.fridager keys ("17-05-24")
const dayOffLayout = "02-01-06"

// rawData mirrors the JSON data file
type rawData struct {
	Timetables map[string][][]string `json:"timeplaner"`
	SchoolYear struct {
		VacationWeeks []string          `json:"ferier"`
		DaysOff       map[string]string `json:"fridager"`
	} `json:"skoleruta"`
}

// Data is the decoded school data: one grid per class plus the school calendar
type Data struct {
	Timetables    map[string]Grid
	VacationWeeks []string          // week tokens ("41-2023") skipped entirely
	DaysOff       map[string]string // YYYY-MM-DD -> description
}

// Load reads and decodes the data file at path
func Load(path string) (*Data, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrDataLoad, path, err)
	}
	defer file.Close()

	data, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode reads the JSON data file from r. Every period is decoded once here;
// grid shapes are checked later, per class, by the merger.
func Decode(r io.Reader) (*Data, error) {
	var raw rawData
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse data: %v", ErrDataLoad, err)
	}

	if len(raw.Timetables) == 0 {
		return nil, fmt.Errorf("%w: no timetables (timeplaner) in data", ErrDataLoad)
	}

	data := &Data{
		Timetables:    make(map[string]Grid, len(raw.Timetables)),
		VacationWeeks: make([]string, 0, len(raw.SchoolYear.VacationWeeks)),
		DaysOff:       make(map[string]string, len(raw.SchoolYear.DaysOff)),
	}

	for class, rawGrid := range raw.Timetables {
		grid, err := ParseGrid(rawGrid)
		if err != nil {
			return nil, fmt.Errorf("%w: class %s: %w", ErrDataLoad, class, err)
		}
		data.Timetables[class] = grid
	}

	for _, week := range raw.SchoolYear.VacationWeeks {
		data.VacationWeeks = append(data.VacationWeeks, strings.TrimSpace(week))
	}

	for dateStr, name := range raw.SchoolYear.DaysOff {
		date, err := time.Parse(dayOffLayout, strings.TrimSpace(dateStr))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid day off date %q (want DD-MM-YY): %v", ErrDataLoad, dateStr, err)
		}
		data.DaysOff[date.Format("2006-01-02")] = name
	}

	return data, nil
}

// Classes returns the class names present in the data, sorted
func (d *Data) Classes() []string {
	classes := make([]string, 0, len(d.Timetables))
	for class := range d.Timetables {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Grid returns the timetable of a class
func (d *Data) Grid(class string) (Grid, error) {
	grid, ok := d.Timetables[class]
	if !ok {
		return nil, fmt.Errorf("%w: no timetable for class %s", ErrDataLoad, class)
	}
	return grid, nil
}
