package timetable

import (
	"errors"
	"fmt"
)

const (
	// PeriodsPerDay is the number of class periods in a school day
	PeriodsPerDay = 8
	// DaysPerWeek is the number of school days (Monday-Friday)
	DaysPerWeek = 5
)

// ErrMalformedGrid is returned for a grid that is not PeriodsPerDay rows of equal length
var ErrMalformedGrid = errors.New("malformed grid")

// Grid is a period-major weekly timetable: Grid[period][weekday]
type Grid [][]Period

// ParseGrid decodes a raw grid of period strings
func ParseGrid(raw [][]string) (Grid, error) {
	grid := make(Grid, len(raw))
	for r, row := range raw {
		grid[r] = make([]Period, len(row))
		for d, s := range row {
			p, err := ParsePeriod(s)
			if err != nil {
				return nil, fmt.Errorf("period %d, day %d: %w", r+1, d+1, err)
			}
			grid[r][d] = p
		}
	}
	return grid, nil
}

// Validate checks the grid shape: PeriodsPerDay rows of exactly
// DaysPerWeek entries each
func (g Grid) Validate() error {
	if len(g) != PeriodsPerDay {
		return fmt.Errorf("%w: %d rows, want %d", ErrMalformedGrid, len(g), PeriodsPerDay)
	}

	width := len(g[0])
	for i, row := range g {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d entries, row 1 has %d", ErrMalformedGrid, i+1, len(row), width)
		}
	}
	if width != DaysPerWeek {
		return fmt.Errorf("%w: rows have %d entries, want %d", ErrMalformedGrid, width, DaysPerWeek)
	}

	return nil
}

// Column returns the periods of one weekday, period 1 first.
// The returned slice is a copy.
func (g Grid) Column(day int) []Period {
	col := make([]Period, len(g))
	for i, row := range g {
		col[i] = row[day]
	}
	return col
}

// SubjectCodes returns every distinct subject code used in the grid
func (g Grid) SubjectCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, row := range g {
		for _, p := range row {
			if p.Subject == "" || seen[p.Subject] {
				continue
			}
			seen[p.Subject] = true
			codes = append(codes, p.Subject)
		}
	}
	return codes
}
