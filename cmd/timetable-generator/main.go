package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/timetable-generator/internal/calendar"
	"github.com/username/timetable-generator/internal/config"
	"github.com/username/timetable-generator/internal/generator"
	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/render/docx"
	"github.com/username/timetable-generator/internal/render/xlsx"
	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/internal/storage"
	"github.com/username/timetable-generator/internal/timetable"
)

var (
	configPath string
	logger     *zap.Logger
	outWriter  io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timetable-generator",
		Short: "Weekly class timetable generator",
		Long:  "Generate one printable timetable document per class and school week, with days off merged in",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search config.yaml)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(weeksCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(daysCmd())
	rootCmd.AddCommand(daemonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func outPrintf(format string, a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintf(outWriter, format, a...)
}

func outPrintln(a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintln(outWriter, a...)
}

// teeOutput mirrors command output to path; the returned func restores stdout
func teeOutput(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tee path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open tee-output file: %w", err)
	}
	outWriter = io.MultiWriter(os.Stdout, f)
	outPrintf("Output is mirrored to %s\n", path)

	return func() {
		outWriter = os.Stdout
		f.Close()
	}, nil
}

// app holds the components shared by the commands
type app struct {
	cfg      *config.Config
	data     *timetable.Data
	calendar calendar.Calendar
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	data, err := timetable.Load(cfg.Data.File)
	if err != nil {
		return nil, err
	}

	cal, err := buildCalendar(cfg, data)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, data: data, calendar: cal}, nil
}

// buildCalendar combines the data file's school calendar with the optional
// extra days-off file
func buildCalendar(cfg *config.Config, data *timetable.Data) (calendar.Calendar, error) {
	vacation := make([]calendar.WeekKey, 0, len(data.VacationWeeks))
	for _, token := range data.VacationWeeks {
		w, err := schedule.ParseWeekToken(token)
		if err != nil {
			return nil, fmt.Errorf("%w: vacation week: %v", timetable.ErrDataLoad, err)
		}
		vacation = append(vacation, calendar.WeekKey{Year: w.Year, Week: w.Number})
	}

	school := calendar.NewSchoolCalendar(data.DaysOff, vacation, logger)
	if cfg.Calendar.ExtraFile == "" {
		return school, nil
	}

	logger.Info("Using extra days-off file", zap.String("path", cfg.Calendar.ExtraFile))
	composite := calendar.NewCompositeCalendar(school, calendar.NewFileCalendar(cfg.Calendar.ExtraFile, logger), logger)
	if err := composite.LoadFallback(); err != nil {
		logger.Warn("Failed to load extra days-off file, continuing with school calendar only",
			zap.Error(err))
	}
	return composite, nil
}

func buildBackend(format string) (render.Backend, error) {
	switch format {
	case "docx":
		return docx.NewBackend(), nil
	case "xlsx":
		return xlsx.NewBackend(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want docx or xlsx)", format)
	}
}

func buildSink(ctx context.Context, cfg *config.Config) (storage.Sink, error) {
	switch cfg.Storage.Type {
	case "", "file":
		return storage.NewFileSink(cfg.Output.Dir, logger), nil
	case "minio":
		return storage.NewMinioSink(ctx, cfg.MinioSettings(), logger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}
}

func (a *app) newManager(ctx context.Context, format string) (*generator.Manager, error) {
	backend, err := buildBackend(format)
	if err != nil {
		return nil, err
	}

	sink, err := buildSink(ctx, a.cfg)
	if err != nil {
		return nil, err
	}

	var manifest *generator.Manifest
	if a.cfg.Output.ManifestFile != "" {
		manifest = generator.NewManifest(a.cfg.Output.ManifestFile, logger)
		if err := manifest.Load(); err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
	}

	settings := a.cfg.RenderSettings()
	renderer := render.NewRenderer(settings, backend, logger)

	manager := generator.NewManager(a.data, a.calendar, renderer, sink, manifest, logger)
	manager.SetOutput(outWriter)

	version, err := generator.SettingsVersion(settings)
	if err != nil {
		return nil, err
	}
	manager.SetSettingsVersion(version)

	return manager, nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
