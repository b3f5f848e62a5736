package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/generator"
	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/pkg/dateutil"
)

// ErrRunInProgress is returned when a run is requested while one is active
var ErrRunInProgress = errors.New("generation already in progress")

// Daemon regenerates the current and next week's timetables once a day
type Daemon struct {
	manager     *generator.Manager
	classes     []string
	calendar    generator.VacationCalendar
	opts        generator.Options
	dailyHour   int // Hour to run daily generation (0-23)
	dailyMinute int // Minute to run daily generation (0-59)
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	lastRunDate string    // Track last successful run date to avoid duplicates
	lastRunTime time.Time // Track last successful run time
	mu          sync.Mutex
	running     bool
}

// NewScheduledDaemon creates a daemon running daily at hour:minute in loc
func NewScheduledDaemon(
	manager *generator.Manager,
	classes []string,
	cal generator.VacationCalendar,
	opts generator.Options,
	dailyHour, dailyMinute int,
	loc *time.Location,
	logger *zap.Logger,
) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	if loc == nil {
		loc = time.UTC
	}

	return &Daemon{
		manager:     manager,
		classes:     classes,
		calendar:    cal,
		opts:        opts,
		dailyHour:   dailyHour,
		dailyMinute: dailyMinute,
		location:    loc,
		now:         time.Now,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start runs the scheduler until Stop is called or SIGINT/SIGTERM arrives
func (d *Daemon) Start() error {
	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.String("timezone", d.location.String()),
		zap.Strings("classes", d.classes))

	// Run immediately if the scheduled time already passed today
	now := d.now().In(d.location)
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	if now.After(scheduledToday) {
		d.logger.Info("Scheduled time already passed today, generating now",
			zap.Time("scheduled_time", scheduledToday),
			zap.Time("current_time", now))
		if err := d.runSync(); err != nil {
			d.logger.Error("Initial generation failed", zap.Error(err))
		}
	}

	nextRun := d.calculateNextRun()
	d.logger.Info("Next generation scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", nextRun.Sub(d.now())))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Check every minute if it's time to run
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return nil

		case now := <-ticker.C:
			if !d.shouldRunAt(now) {
				continue
			}

			d.logger.Info("Starting scheduled generation", zap.Time("time", now))
			if err := d.runSync(); err != nil {
				d.logger.Error("Scheduled generation failed", zap.Error(err))
				continue
			}

			nextRun = d.calculateNextRun()
			d.logger.Info("Next generation scheduled",
				zap.Time("next_run", nextRun),
				zap.Duration("wait_duration", nextRun.Sub(d.now())))
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RunNow generates the current and next week immediately, once per day
func (d *Daemon) RunNow() error {
	return d.runSync()
}

// Weeks returns the current and next ISO week at the given time
func (d *Daemon) Weeks(at time.Time) []schedule.Week {
	year, week := dateutil.GetWeekNumber(at.In(d.location))
	nextYear, nextWeek := dateutil.NextISOWeek(year, week)
	return []schedule.Week{
		{Year: year, Number: week},
		{Year: nextYear, Number: nextWeek},
	}
}

// calculateNextRun calculates the next scheduled run time
func (d *Daemon) calculateNextRun() time.Time {
	now := d.now().In(d.location)

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// shouldRunAt checks if the scheduled minute matches and today has not run yet
func (d *Daemon) shouldRunAt(now time.Time) bool {
	local := now.In(d.location)
	if local.Hour() != d.dailyHour || local.Minute() != d.dailyMinute {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRunDate != local.Format("2006-01-02")
}

// runSync generates documents for the current and next week.
// Concurrent and same-day repeated runs are refused.
func (d *Daemon) runSync() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Generation already running, skipping concurrent execution")
		return ErrRunInProgress
	}

	now := d.now().In(d.location)
	today := now.Format("2006-01-02")
	if d.lastRunDate == today {
		d.mu.Unlock()
		d.logger.Info("Already generated today, skipping",
			zap.String("last_run_date", d.lastRunDate),
			zap.Time("last_run_time", d.lastRunTime))
		return nil
	}

	d.running = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	var planned []generator.PlannedWeek
	for _, w := range d.Weeks(now) {
		planned = append(planned, generator.PlannedWeek{
			Week:     w,
			Vacation: d.calendar.IsVacationWeek(w.Year, w.Number),
		})
	}
	jobs := generator.Plan(d.classes, planned)

	d.logger.Info("Generating current and next week",
		zap.Time("date", now),
		zap.Int("jobs", len(jobs)))

	result, err := d.manager.Generate(d.ctx, jobs, d.opts)
	if err != nil {
		return fmt.Errorf("failed to generate timetables: %w", err)
	}

	d.mu.Lock()
	d.lastRunDate = today
	d.lastRunTime = now
	d.mu.Unlock()

	d.logger.Info("Daily generation completed",
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", result.Duration))

	return nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	return map[string]interface{}{
		"running":       d.running,
		"last_run_date": d.lastRunDate,
		"next_run":      d.calculateNextRun().Format(time.RFC3339),
		"timezone":      d.location.String(),
	}
}
