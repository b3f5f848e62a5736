package calendar

import (
	"time"

	"go.uber.org/zap"
)

// SchoolCalendar implements Calendar from the school year data (skoleruta)
type SchoolCalendar struct {
	holidays HolidayMap
	vacation map[WeekKey]bool
	logger   *zap.Logger
}

// NewSchoolCalendar creates a calendar from days off (YYYY-MM-DD -> name)
// and vacation weeks
func NewSchoolCalendar(daysOff map[string]string, vacationWeeks []WeekKey, logger *zap.Logger) *SchoolCalendar {
	sc := &SchoolCalendar{
		holidays: make(HolidayMap, len(daysOff)),
		vacation: make(map[WeekKey]bool, len(vacationWeeks)),
		logger:   logger,
	}

	for date, name := range daysOff {
		sc.holidays[date] = name
	}
	for _, w := range vacationWeeks {
		sc.vacation[w] = true
	}

	logger.Info("School calendar loaded",
		zap.Int("days_off", len(sc.holidays)),
		zap.Int("vacation_weeks", len(sc.vacation)))

	return sc
}

// HolidayName returns the name of the day off on date
func (sc *SchoolCalendar) HolidayName(date time.Time) (string, bool) {
	return sc.holidays.HolidayName(date)
}

// IsVacationWeek reports whether the ISO week is a full holiday week
func (sc *SchoolCalendar) IsVacationWeek(year, week int) bool {
	return sc.vacation[WeekKey{Year: year, Week: week}]
}

// GetDayInfo returns detailed info for a specific day
func (sc *SchoolCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayInfo(date, sc.holidays, sc.IsVacationWeek), nil
}
