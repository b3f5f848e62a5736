package dateutil

import (
	"fmt"
	"time"
)

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	daysFromMonday := weekday - 1
	return StartOfDay(date.AddDate(0, 0, -daysFromMonday))
}

// GetWeekNumber returns the ISO week number for the given date
func GetWeekNumber(date time.Time) (year int, week int) {
	year, week = date.ISOWeek()
	return
}

// WeeksInYear returns the number of ISO weeks (52 or 53) in the given year.
// December 28 always falls in the last ISO week of its year.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// ISOWeekStart returns the Monday (UTC midnight) of the given ISO week.
// January 4 is always in ISO week 1.
func ISOWeekStart(year, week int) (time.Time, error) {
	if week < 1 || week > WeeksInYear(year) {
		return time.Time{}, fmt.Errorf("week %d out of range for %d (1-%d)", week, year, WeeksInYear(year))
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return StartOfWeek(jan4).AddDate(0, 0, (week-1)*7), nil
}

// NextISOWeek returns the (year, week) pair following the given ISO week
func NextISOWeek(year, week int) (int, int) {
	if week >= WeeksInYear(year) {
		return year + 1, 1
	}
	return year, week + 1
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// DateKey formats the calendar date part as YYYY-MM-DD
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"02-01-06",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date format: %q", dateStr)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
