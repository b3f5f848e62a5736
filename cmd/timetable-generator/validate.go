package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/config"
	"github.com/username/timetable-generator/internal/generator"
	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/timetable"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and the timetable data",
		Long:  "Check every configured class grid for shape, unknown subject codes and doubles that cannot be laid out, without rendering anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			errs := validateData(a.cfg, a.data)
			if len(errs) > 0 {
				outPrintf("\n%d problem(s) found\n", len(errs))
				return errors.Join(errs...)
			}
			outPrintln("\nConfiguration and data are valid")
			return nil
		},
	}
}

// validateData checks the configured classes and school year against the
// loaded data and prints one line per check
func validateData(cfg *config.Config, data *timetable.Data) []error {
	var errs []error

	if _, _, err := generator.ParseWeekRange(cfg.School.Weeks); err != nil {
		outPrintf("FAILED  weeks %q: %v\n", cfg.School.Weeks, err)
		errs = append(errs, err)
	} else {
		outPrintf("OK      weeks %s\n", cfg.School.Weeks)
	}

	palette := cfg.Palette()
	configured := make(map[string]bool, len(cfg.School.Classes))
	for _, class := range cfg.School.Classes {
		configured[class] = true
		if err := validateClass(data, palette, class); err != nil {
			outPrintf("FAILED  %s: %v\n", class, err)
			errs = append(errs, fmt.Errorf("class %s: %w", class, err))
			continue
		}
		outPrintf("OK      %s\n", class)
	}

	for _, class := range data.Classes() {
		if !configured[class] {
			outPrintf("WARNING %s has a timetable but is not configured\n", class)
			logger.Warn("Class in data is not configured", zap.String("class", class))
		}
	}

	return errs
}

func validateClass(data *timetable.Data, palette render.Palette, class string) error {
	grid, err := data.Grid(class)
	if err != nil {
		return err
	}
	if err := grid.Validate(); err != nil {
		return err
	}
	if err := palette.CheckCodes(grid.SubjectCodes()); err != nil {
		return err
	}

	last := grid[len(grid)-1]
	for day := 0; day < timetable.DaysPerWeek; day++ {
		if last[day].Kind == timetable.PeriodDouble {
			return fmt.Errorf("%w: double %s starts in the last period on day %d", render.ErrRenderLayout, last[day].Subject, day+1)
		}
	}
	return nil
}
