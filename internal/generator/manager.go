// Package generator turns class timetables into weekly schedule documents.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/timetable-generator/internal/calendar"
	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/internal/storage"
	"github.com/username/timetable-generator/internal/timetable"
)

// DefaultWorkers is the worker count used when Options.Workers is not set
const DefaultWorkers = 4

// JobError is the failure of one job
type JobError struct {
	Class string
	Week  string
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("class %s week %s: %v", e.Class, e.Week, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Options control a generation run
type Options struct {
	DryRun      bool // render but do not store
	FailFast    bool // stop at the first failed job
	Incremental bool // skip jobs whose content did not change since the last run
	Workers     int
}

// Output is the outcome of one successful job
type Output struct {
	Job      Job
	Location string
	Skipped  bool
}

// Result summarizes a generation run
type Result struct {
	Generated int
	Skipped   int
	Failed    int
	Outputs   []Output
	Errors    []error
	Duration  time.Duration
}

// Manager runs generation jobs
type Manager struct {
	data     *timetable.Data
	calendar calendar.HolidayLookup
	renderer *render.Renderer
	sink     storage.Sink
	manifest *Manifest
	settings string
	out      io.Writer
	logger   *zap.Logger
}

// NewManager creates a generation manager. manifest may be nil, which
// disables incremental runs.
func NewManager(
	data *timetable.Data,
	cal calendar.HolidayLookup,
	renderer *render.Renderer,
	sink storage.Sink,
	manifest *Manifest,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		data:     data,
		calendar: cal,
		renderer: renderer,
		sink:     sink,
		manifest: manifest,
		out:      io.Discard,
		logger:   logger,
	}
}

// SetOutput sets where per-class progress lines are printed
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// SetSettingsVersion sets the renderer settings fingerprint mixed into
// document fingerprints, so changed colors or names regenerate documents
func (m *Manager) SetSettingsVersion(v string) {
	m.settings = v
}

// Generate runs the jobs on a bounded worker pool. The returned Result is
// never nil; the error joins every JobError (only the first with FailFast).
func (m *Manager) Generate(ctx context.Context, jobs []Job, opts Options) (*Result, error) {
	start := time.Now()
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	m.logger.Info("Starting generation",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", workers),
		zap.String("format", m.renderer.Backend().Name()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("incremental", opts.Incremental))

	result := &Result{}
	var (
		mu      sync.Mutex
		started = make(map[string]bool)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		job := job

		g.Go(func() error {
			mu.Lock()
			if !started[job.Class] {
				started[job.Class] = true
				fmt.Fprintf(m.out, "Generating timetables for class %s\n", job.Class)
			}
			mu.Unlock()

			out, err := m.generateJob(gctx, job, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				jerr := &JobError{Class: job.Class, Week: job.Week.String(), Err: err}
				result.Failed++
				result.Errors = append(result.Errors, jerr)
				m.logger.Error("Job failed",
					zap.String("class", job.Class),
					zap.String("week", job.Week.String()),
					zap.Error(err))
				if opts.FailFast {
					return jerr
				}
				return nil
			}

			result.Outputs = append(result.Outputs, out)
			if out.Skipped {
				result.Skipped++
			} else {
				result.Generated++
			}
			return nil
		})
	}

	waitErr := g.Wait()

	if m.manifest != nil && !opts.DryRun && result.Generated > 0 {
		if err := m.manifest.Save(); err != nil {
			m.logger.Error("Failed to save manifest", zap.Error(err))
			result.Errors = append(result.Errors, err)
		}
	}

	result.Duration = time.Since(start)
	m.logger.Info("Generation completed",
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration))

	if opts.FailFast && waitErr != nil {
		return result, waitErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, errors.Join(result.Errors...)
}

func (m *Manager) generateJob(ctx context.Context, job Job, opts Options) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	grid, err := m.data.Grid(job.Class)
	if err != nil {
		return Output{}, err
	}

	dates, err := job.Week.Dates()
	if err != nil {
		return Output{}, err
	}

	days, err := schedule.Merge(grid, dates, m.calendar)
	if err != nil {
		return Output{}, err
	}

	backend := m.renderer.Backend()
	name := storage.ObjectName(job.Class, job.Week.Year, job.Week.Number, backend.Extension())
	fingerprint := Fingerprint(backend.Name(), m.settings, dates, days)

	if opts.Incremental && m.manifest != nil && m.manifest.Unchanged(job, fingerprint) {
		entry, _ := m.manifest.Entry(job)
		m.logger.Debug("Document unchanged, skipping",
			zap.String("class", job.Class),
			zap.String("week", job.Week.String()))
		return Output{Job: job, Location: entry.Location, Skipped: true}, nil
	}

	var buf bytes.Buffer
	if err := m.renderer.Render(days, dates, &buf); err != nil {
		return Output{}, err
	}

	if opts.DryRun {
		m.logger.Info("Dry run, document not stored",
			zap.String("class", job.Class),
			zap.String("week", job.Week.String()),
			zap.String("name", name),
			zap.Int("bytes", buf.Len()))
		return Output{Job: job, Location: name}, nil
	}

	location, err := m.sink.Put(ctx, name, backend.ContentType(), buf.Bytes())
	if err != nil {
		return Output{}, err
	}

	if m.manifest != nil {
		m.manifest.Record(job, backend.Name(), location, fingerprint)
	}

	m.logger.Info("Document generated",
		zap.String("class", job.Class),
		zap.String("week", job.Week.String()),
		zap.String("location", location))

	return Output{Job: job, Location: location}, nil
}

// SettingsVersion fingerprints renderer settings
func SettingsVersion(settings render.Settings) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode renderer settings: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}
