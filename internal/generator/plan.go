package generator

import (
	"fmt"
	"strings"

	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/pkg/dateutil"
)

// Job is one document to generate: a class timetable for one week
type Job struct {
	Class string
	Week  schedule.Week
}

// Key identifies the job in the manifest ("1STA/35-2023")
func (j Job) Key() string {
	return j.Class + "/" + j.Week.String()
}

func (j Job) String() string {
	return j.Key()
}

// VacationCalendar reports school vacation weeks
type VacationCalendar interface {
	IsVacationWeek(year, week int) bool
}

// PlannedWeek is a week of the school year, marked when it is a vacation week
type PlannedWeek struct {
	Week     schedule.Week
	Vacation bool
}

// ParseWeekRange parses an inclusive "<from>:<to>" range such as "35-2023:25-2024"
func ParseWeekRange(s string) (from, to schedule.Week, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return from, to, fmt.Errorf("%w: week range %q (want WW-YYYY:WW-YYYY)", schedule.ErrInvalidWeekToken, s)
	}

	if from, err = schedule.ParseWeekToken(parts[0]); err != nil {
		return from, to, fmt.Errorf("range start: %w", err)
	}
	if to, err = schedule.ParseWeekToken(parts[1]); err != nil {
		return from, to, fmt.Errorf("range end: %w", err)
	}

	if before(to, from) {
		return from, to, fmt.Errorf("%w: week range %q ends before it starts", schedule.ErrInvalidWeekToken, s)
	}
	return from, to, nil
}

func before(a, b schedule.Week) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Number < b.Number
}

// WeeksBetween returns every ISO week from..to inclusive, crossing year
// boundaries (53-week years included)
func WeeksBetween(from, to schedule.Week) []schedule.Week {
	var weeks []schedule.Week
	for w := from; !before(to, w); {
		weeks = append(weeks, w)
		w.Year, w.Number = dateutil.NextISOWeek(w.Year, w.Number)
	}
	return weeks
}

// PlanWeeks lists the weeks of a range, marking vacation weeks
func PlanWeeks(weekRange string, cal VacationCalendar) ([]PlannedWeek, error) {
	from, to, err := ParseWeekRange(weekRange)
	if err != nil {
		return nil, err
	}

	weeks := WeeksBetween(from, to)
	planned := make([]PlannedWeek, len(weeks))
	for i, w := range weeks {
		planned[i] = PlannedWeek{Week: w, Vacation: cal.IsVacationWeek(w.Year, w.Number)}
	}
	return planned, nil
}

// Plan returns a job for every class and every non-vacation week, grouped by class
func Plan(classes []string, weeks []PlannedWeek) []Job {
	var jobs []Job
	for _, class := range classes {
		for _, w := range weeks {
			if w.Vacation {
				continue
			}
			jobs = append(jobs, Job{Class: class, Week: w.Week})
		}
	}
	return jobs
}
