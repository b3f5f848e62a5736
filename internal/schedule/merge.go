package schedule

import (
	"errors"
	"fmt"

	"github.com/username/timetable-generator/internal/calendar"
	"github.com/username/timetable-generator/internal/timetable"
)

var (
	// ErrMalformedDateRange is returned when a date range is not exactly five days
	ErrMalformedDateRange = errors.New("malformed date range")
	// ErrMalformedGrid is the grid shape error from the timetable package
	ErrMalformedGrid = timetable.ErrMalformedGrid
)

// holidayMarkerPrefix is the wire prefix of a day-off column ("3:<description>")
const holidayMarkerPrefix = "3:"

// DayColumn is one rendering-ready school day: either the day's periods
// (period 1 first) or a holiday replacing the whole day
type DayColumn struct {
	Periods []timetable.Period
	Holiday string
	IsOff   bool
}

// HolidayColumn returns a day column replaced by a holiday
func HolidayColumn(name string) DayColumn {
	return DayColumn{Holiday: name, IsOff: true}
}

// Marker returns the day-off marker ("3:<name>") for holiday columns
func (d DayColumn) Marker() string {
	if !d.IsOff {
		return ""
	}
	return holidayMarkerPrefix + d.Holiday
}

// Merge substitutes holidays into a weekly grid. Day i becomes a holiday
// column when dates[i] is a holiday; otherwise it is column i of the grid.
// A nil holidays lookup means no holidays. The grid is never modified.
func Merge(grid timetable.Grid, dates DateRange, holidays calendar.HolidayLookup) ([]DayColumn, error) {
	if len(dates) != timetable.DaysPerWeek {
		return nil, fmt.Errorf("%w: %d dates, want %d", ErrMalformedDateRange, len(dates), timetable.DaysPerWeek)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	days := make([]DayColumn, len(dates))
	for i, date := range dates {
		if holidays != nil {
			if name, ok := holidays.HolidayName(date); ok {
				days[i] = HolidayColumn(name)
				continue
			}
		}
		days[i] = DayColumn{Periods: grid.Column(i)}
	}

	return days, nil
}
