package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/daemon"
	"github.com/username/timetable-generator/internal/generator"
	"github.com/username/timetable-generator/internal/schedule"
)

func generateCmd() *cobra.Command {
	var (
		classes     []string
		weeks       []string
		format      string
		dryRun      bool
		failFast    bool
		incremental bool
		workers     int
		tee         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate timetable documents",
		Long:  "Generate one document per class and week. Defaults to every configured class and every non-vacation week of the school year.",
		RunE: func(cmd *cobra.Command, args []string) error {
			restore, err := teeOutput(tee)
			if err != nil {
				return err
			}
			defer restore()

			a, err := loadApp()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Generator.GetWorkers()
			}
			if !cmd.Flags().Changed("fail-fast") {
				failFast = a.cfg.Generator.FailFast
			}
			if !cmd.Flags().Changed("incremental") {
				incremental = a.cfg.Generator.Incremental
			}
			if len(classes) == 0 {
				classes = a.cfg.School.Classes
			}

			planned, err := plannedWeeks(a, weeks)
			if err != nil {
				return err
			}
			jobs := generator.Plan(classes, planned)
			if len(jobs) == 0 {
				outPrintln("Nothing to generate")
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager, err := a.newManager(ctx, format)
			if err != nil {
				return err
			}

			logger.Info("Starting generate",
				zap.Strings("classes", classes),
				zap.Int("weeks", len(planned)),
				zap.String("format", format),
				zap.Bool("dry_run", dryRun))

			result, genErr := manager.Generate(ctx, jobs, generator.Options{
				DryRun:      dryRun,
				FailFast:    failFast,
				Incremental: incremental,
				Workers:     workers,
			})
			printResult(result, dryRun)

			if genErr != nil {
				return fmt.Errorf("%d of %d documents failed: %w", result.Failed, len(jobs), genErr)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&classes, "class", nil, "Class to generate (repeatable, default: all configured classes)")
	cmd.Flags().StringSliceVar(&weeks, "week", nil, "Week token WW-YYYY (repeatable, default: the configured school year)")
	cmd.Flags().StringVar(&format, "format", "docx", "Output format: docx or xlsx")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render documents without storing them")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed document")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "Skip documents whose content did not change since the last run")
	cmd.Flags().IntVar(&workers, "workers", generator.DefaultWorkers, "Number of documents rendered in parallel")
	cmd.Flags().StringVar(&tee, "tee-output", "", "Mirror output to file")

	return cmd
}

// plannedWeeks returns the explicitly requested weeks, or the configured
// school year with vacation weeks marked
func plannedWeeks(a *app, tokens []string) ([]generator.PlannedWeek, error) {
	if len(tokens) == 0 {
		return generator.PlanWeeks(a.cfg.School.Weeks, a.calendar)
	}

	planned := make([]generator.PlannedWeek, 0, len(tokens))
	for _, token := range tokens {
		w, err := schedule.ParseWeekToken(token)
		if err != nil {
			return nil, err
		}
		planned = append(planned, generator.PlannedWeek{Week: w})
	}
	return planned, nil
}

func printResult(result *generator.Result, dryRun bool) {
	if result == nil {
		return
	}

	label := "Generated"
	if dryRun {
		label = "[DRY RUN] Rendered"
	}

	outPrintln()
	outPrintf("%s %d document(s), skipped %d unchanged, %d failed in %s\n",
		label, result.Generated, result.Skipped, result.Failed, result.Duration.Round(time.Millisecond))
	for _, err := range result.Errors {
		outPrintf("  FAILED %v\n", err)
	}
}

func weeksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "List the weeks of the configured school year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			planned, err := generator.PlanWeeks(a.cfg.School.Weeks, a.calendar)
			if err != nil {
				return err
			}

			vacation := 0
			for _, w := range planned {
				dates, err := w.Week.Dates()
				if err != nil {
					return err
				}
				mark := ""
				if w.Vacation {
					mark = "  (vacation)"
					vacation++
				}
				outPrintf("%-8s %s - %s%s\n", w.Week, dates[0].Format("02.01.2006"), dates[len(dates)-1].Format("02.01.2006"), mark)
			}
			outPrintf("\n%d weeks, %d vacation weeks\n", len(planned), vacation)
			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Regenerate the current and next week every day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}

			manager, err := a.newManager(context.Background(), format)
			if err != nil {
				return err
			}

			hour, minute := a.cfg.Daemon.GetDailyTime()
			d := daemon.NewScheduledDaemon(
				manager,
				a.cfg.School.Classes,
				a.calendar,
				generator.Options{
					Incremental: a.cfg.Generator.Incremental,
					Workers:     a.cfg.Generator.GetWorkers(),
				},
				hour, minute,
				a.cfg.Daemon.Location(),
				logger,
			)

			logger.Info("Starting daemon mode",
				zap.Int("daily_hour", hour),
				zap.Int("daily_minute", minute),
				zap.String("timezone", a.cfg.Daemon.Location().String()))

			return d.Start()
		},
	}

	cmd.Flags().StringVar(&format, "format", "docx", "Output format: docx or xlsx")

	return cmd
}
