package calendar

import (
	"time"

	"github.com/username/timetable-generator/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeSchoolday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeVacation
)

// String returns the day type name used in calendar files
func (t DayType) String() string {
	switch t {
	case DayTypeSchoolday:
		return "schoolday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeVacation:
		return "vacation"
	default:
		return "unknown"
	}
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date        time.Time
	Type        DayType
	IsSchoolday bool
	Note        string
}

// WeekKey identifies an ISO week
type WeekKey struct {
	Year int
	Week int
}

// HolidayLookup resolves the name of the day off on a date, if any
type HolidayLookup interface {
	HolidayName(date time.Time) (string, bool)
}

// Calendar interface for checking school days
type Calendar interface {
	HolidayLookup

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date time.Time) (*DayInfo, error)

	// IsVacationWeek reports whether the whole ISO week is a holiday week
	IsVacationWeek(year, week int) bool
}

// HolidayMap maps calendar dates to holiday names
type HolidayMap map[string]string

// NewHolidayMap builds a HolidayMap from dates
func NewHolidayMap(days map[time.Time]string) HolidayMap {
	m := make(HolidayMap, len(days))
	for date, name := range days {
		m.Add(date, name)
	}
	return m
}

// Add registers a day off
func (m HolidayMap) Add(date time.Time, name string) {
	m[dateutil.DateKey(date)] = name
}

// HolidayName returns the holiday name for the date
func (m HolidayMap) HolidayName(date time.Time) (string, bool) {
	name, ok := m[dateutil.DateKey(date)]
	return name, ok
}

// dayInfo classifies a date against a holiday lookup and vacation weeks
func dayInfo(date time.Time, holidays HolidayLookup, vacation func(year, week int) bool) *DayInfo {
	info := &DayInfo{Date: dateutil.StartOfDay(date)}

	if name, ok := holidays.HolidayName(date); ok {
		info.Type = DayTypeHoliday
		info.Note = name
		return info
	}

	if !dateutil.IsWeekday(date) {
		info.Type = DayTypeWeekend
		return info
	}

	if year, week := dateutil.GetWeekNumber(date); vacation(year, week) {
		info.Type = DayTypeVacation
		return info
	}

	info.Type = DayTypeSchoolday
	info.IsSchoolday = true
	return info
}
