package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar by layering two calendars
// Primary: SchoolCalendar (data file)
// Fallback: FileCalendar (local overrides)
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// HolidayName returns the primary calendar's holiday, else the fallback's
func (cc *CompositeCalendar) HolidayName(date time.Time) (string, bool) {
	if name, ok := cc.primary.HolidayName(date); ok {
		return name, true
	}

	name, ok := cc.fallback.HolidayName(date)
	if ok {
		cc.logger.Debug("Day off from fallback calendar",
			zap.Time("date", date),
			zap.String("name", name))
	}
	return name, ok
}

// IsVacationWeek reports a vacation week if either calendar does
func (cc *CompositeCalendar) IsVacationWeek(year, week int) bool {
	return cc.primary.IsVacationWeek(year, week) || cc.fallback.IsVacationWeek(year, week)
}

// GetDayInfo returns detailed info for a specific day
func (cc *CompositeCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayInfo(date, cc, cc.IsVacationWeek), nil
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
