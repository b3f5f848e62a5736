package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/timetable-generator/internal/timetable"
	"github.com/username/timetable-generator/pkg/dateutil"
)

var (
	// ErrInvalidWeekToken is returned when a token is not "<week>-<year>"
	ErrInvalidWeekToken = errors.New("invalid week token")
	// ErrInvalidWeekNumber is returned for a week outside the year's ISO weeks
	ErrInvalidWeekNumber = errors.New("invalid week number")
)

// DateRange is the Monday-Friday dates of one school week
type DateRange []time.Time

// Week identifies an ISO week
type Week struct {
	Year   int
	Number int
}

// String formats the week as a token ("35-2023")
func (w Week) String() string {
	return FormatWeekToken(w.Year, w.Number)
}

// FormatWeekToken formats a week token the way the data file does, without padding
func FormatWeekToken(year, week int) string {
	return fmt.Sprintf("%d-%d", week, year)
}

// ParseWeekToken parses "<week>-<year>" and checks the week exists in that year
func ParseWeekToken(token string) (Week, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) != 2 {
		return Week{}, fmt.Errorf("%w: %q (want WW-YYYY)", ErrInvalidWeekToken, token)
	}

	week, err := strconv.Atoi(parts[0])
	if err != nil {
		return Week{}, fmt.Errorf("%w: %q: week is not a number", ErrInvalidWeekToken, token)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Week{}, fmt.Errorf("%w: %q: year is not a number", ErrInvalidWeekToken, token)
	}

	if weeks := dateutil.WeeksInYear(year); week < 1 || week > weeks {
		return Week{}, fmt.Errorf("%w: week %d of %d (valid 1-%d)", ErrInvalidWeekNumber, week, year, weeks)
	}

	return Week{Year: year, Number: week}, nil
}

// Dates returns the Monday-Friday dates of the week
func (w Week) Dates() (DateRange, error) {
	monday, err := dateutil.ISOWeekStart(w.Year, w.Number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeekNumber, err)
	}

	dates := make(DateRange, timetable.DaysPerWeek)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates, nil
}

// ResolveWeek converts a "WW-YYYY" token into its five school dates
func ResolveWeek(token string) (DateRange, error) {
	week, err := ParseWeekToken(token)
	if err != nil {
		return nil, err
	}
	return week.Dates()
}
