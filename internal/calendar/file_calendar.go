package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/timetable-generator/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file of extra days off
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	holidays HolidayMap
	vacation map[WeekKey]bool
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		holidays: make(HolidayMap),
		vacation: make(map[WeekKey]bool),
	}
}

// Load loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD type [note]
		// Example: 2024-05-10 holiday Inneklemt dag
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
		}

		switch parts[1] {
		case "holiday":
			if note == "" {
				note = "Fri"
			}
			fc.holidays.Add(date, note)
		case "vacation":
			year, week := dateutil.GetWeekNumber(date)
			fc.vacation[WeekKey{Year: year, Week: week}] = true
		default:
			fc.logger.Warn("Unknown day type", zap.String("type", parts[1]))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("days_off", len(fc.holidays)),
		zap.Int("vacation_weeks", len(fc.vacation)))

	return nil
}

// HolidayName returns the name of the day off on date
func (fc *FileCalendar) HolidayName(date time.Time) (string, bool) {
	return fc.holidays.HolidayName(date)
}

// IsVacationWeek reports whether the file marks the ISO week as vacation
func (fc *FileCalendar) IsVacationWeek(year, week int) bool {
	return fc.vacation[WeekKey{Year: year, Week: week}]
}

// GetDayInfo returns detailed info for a specific day
func (fc *FileCalendar) GetDayInfo(date time.Time) (*DayInfo, error) {
	return dayInfo(date, fc.holidays, fc.IsVacationWeek), nil
}
