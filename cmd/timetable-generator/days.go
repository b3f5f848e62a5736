package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/timetable-generator/internal/calendar"
	"github.com/username/timetable-generator/pkg/dateutil"
)

func daysCmd() *cobra.Command {
	var fromStr string
	var toStr string

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Show school days, holidays and vacation days in a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := dateutil.Today()
			from, to, err := dayRange(fromStr, toStr, today)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			outPrintf("Days %s to %s:\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
			return printDays(a.calendar, from, to, today)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD, default: Monday of the current week)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, default: Friday of the current week)")

	return cmd
}

// dayRange resolves the --from/--to flags, defaulting to the school week of today
func dayRange(fromStr, toStr string, today time.Time) (time.Time, time.Time, error) {
	if fromStr == "" && toStr == "" {
		monday := dateutil.StartOfWeek(today)
		return monday, monday.AddDate(0, 0, 4), nil
	}
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both --from and --to must be specified")
	}

	from, err := dateutil.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := dateutil.ParseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toStr, fromStr)
	}
	return from, to, nil
}

func printDays(cal calendar.Calendar, from, to, today time.Time) error {
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		info, err := cal.GetDayInfo(date)
		if err != nil {
			return fmt.Errorf("failed to get day info for %s: %w", date.Format("2006-01-02"), err)
		}

		_, week := dateutil.GetWeekNumber(date)
		line := fmt.Sprintf("  %s  %-3s uke %02d  %-9s", date.Format("2006-01-02"), date.Weekday().String()[:3], week, info.Type)
		if info.Note != "" {
			line += "  " + info.Note
		}
		if dateutil.IsSameDay(date, today) {
			line += "  <- today"
		}
		outPrintln(line)
	}
	return nil
}
