package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goodsign/monday"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/username/timetable-generator/internal/render"
	"github.com/username/timetable-generator/internal/storage"
)

// EnvPrefix prefixes environment overrides (TIMETABLE_OUTPUT_DIR, ...)
const EnvPrefix = "TIMETABLE"

// localeAliases maps common locale names to the ones the date formatter knows
var localeAliases = map[string]string{
	"no_NO": monday.LocaleNbNO,
	"nb":    monday.LocaleNbNO,
	"nn":    monday.LocaleNnNO,
}

// Config represents application configuration
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	School    SchoolConfig    `mapstructure:"school"`
	Subjects  []SubjectConfig `mapstructure:"subjects" validate:"required,min=1,dive"`
	Colors    ColorsConfig    `mapstructure:"colors"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Output    OutputConfig    `mapstructure:"output"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig points at the timetable data file
type DataConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// CalendarConfig represents the optional extra days-off file
type CalendarConfig struct {
	ExtraFile string `mapstructure:"extra_file"` // "YYYY-MM-DD <holiday|vacation> [note]" lines
}

// SchoolConfig represents the school year and the bell schedule
type SchoolConfig struct {
	Weeks      string         `mapstructure:"weeks" validate:"required"` // "35-2023:25-2024"
	Classes    []string       `mapstructure:"classes" validate:"required,min=1,dive,required"`
	ClassStart map[int]string `mapstructure:"class_start" validate:"len=8,dive,keys,min=1,max=8,endkeys,datetime=15:04"`
	Pauses     map[int]string `mapstructure:"pauses" validate:"len=3,dive,keys,min=1,max=3,endkeys,required"`
	Notice     string         `mapstructure:"notice"`
	Locale     string         `mapstructure:"locale" validate:"required"`
}

// SubjectConfig maps a subject code to its display name and colors
type SubjectConfig struct {
	Code       string `mapstructure:"code" validate:"required"`
	Name       string `mapstructure:"name" validate:"required"`
	Text       string `mapstructure:"text" validate:"required,hexcolor"`
	Background string `mapstructure:"background" validate:"required,hexcolor"`
}

// ColorConfig is a text/background color pair
type ColorConfig struct {
	Text       string `mapstructure:"text" validate:"required,hexcolor"`
	Background string `mapstructure:"background" validate:"required,hexcolor"`
}

// ColorsConfig holds the non-subject colors
type ColorsConfig struct {
	Holiday ColorConfig `mapstructure:"holiday"` // days off
	Accent  ColorConfig `mapstructure:"accent"`  // header row and pauses
}

// LayoutConfig represents page and table dimensions in centimeters
type LayoutConfig struct {
	TimesColumnCm  float64 `mapstructure:"times_column_cm" validate:"gt=0"`
	ClassColumnCm  float64 `mapstructure:"class_column_cm" validate:"gt=0"`
	PeriodRowCm    float64 `mapstructure:"period_row_cm" validate:"gt=0"`
	MarginLeftCm   float64 `mapstructure:"margin_left_cm" validate:"gte=0"`
	MarginRightCm  float64 `mapstructure:"margin_right_cm" validate:"gte=0"`
	MarginTopCm    float64 `mapstructure:"margin_top_cm" validate:"gte=0"`
	MarginBottomCm float64 `mapstructure:"margin_bottom_cm" validate:"gte=0"`
	FontFamily     string  `mapstructure:"font_family" validate:"required"`
}

// OutputConfig represents where and how documents are written
type OutputConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	Format       string `mapstructure:"format" validate:"oneof=docx xlsx"`
	ManifestFile string `mapstructure:"manifest_file"`
}

// StorageConfig selects the document sink
type StorageConfig struct {
	Type  string      `mapstructure:"type" validate:"oneof=file minio"`
	Minio MinioConfig `mapstructure:"minio"`
}

// MinioConfig represents S3-compatible object storage
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// GeneratorConfig represents generation run defaults
type GeneratorConfig struct {
	Workers     int  `mapstructure:"workers" validate:"gte=0"`
	FailFast    bool `mapstructure:"fail_fast"`
	Incremental bool `mapstructure:"incremental"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime string `mapstructure:"daily_time"` // HH:MM in Timezone
	Timezone  string `mapstructure:"timezone"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Integer-keyed maps are defaulted after unmarshalling; viper only merges
// string-keyed maps.
var (
	defaultClassStart = map[int]string{
		1: "08:10", 2: "08:55", 3: "10:00", 4: "10:45",
		5: "12:00", 6: "12:45", 7: "13:40", 8: "14:25",
	}
	defaultPauses = map[int]string{
		1: "09:40-10:00", 2: "11:30-12:00", 3: "13:30-13:40",
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.file", "data.json")
	v.SetDefault("calendar.extra_file", "")

	v.SetDefault("school.weeks", "35-2023:25-2024")
	v.SetDefault("school.classes", []string{"1TIFA", "1TIFB", "1TIFC", "1TIFD", "1TIFE", "1TIFF", "1TIFG"})
	v.SetDefault("school.notice", "Viktig info:")
	v.SetDefault("school.locale", "nb_NO")

	v.SetDefault("subjects", []map[string]string{
		{"code": "y", "name": "YFF", "text": "#ffffff", "background": "#8b4049"},
		{"code": "n", "name": "Naturfag", "text": "#000000", "background": "#c9cca1"},
		{"code": "m", "name": "Matematikk", "text": "#ffffff", "background": "#515262"},
		{"code": "e", "name": "Engelsk", "text": "#ffffff", "background": "#543344"},
		{"code": "k", "name": "Kroppsøving", "text": "#ffffff", "background": "#caa05a"},
		{"code": "pk", "name": "Produktivitet og kvalitetsstyring", "text": "#ffffff", "background": "#ae6a47"},
		{"code": "ks", "name": "Konstruksjon og styringsteknikk", "text": "#ffffff", "background": "#63787d"},
		{"code": "pt", "name": "Produksjon og tjenester", "text": "#ffffff", "background": "#8ea091"},
	})
	v.SetDefault("colors.holiday.text", "#000000")
	v.SetDefault("colors.holiday.background", "#D9D9D9")
	v.SetDefault("colors.accent.text", "#ffffff")
	v.SetDefault("colors.accent.background", "#E2EFD9")

	v.SetDefault("layout.times_column_cm", 2.0)
	v.SetDefault("layout.class_column_cm", 5.0)
	v.SetDefault("layout.period_row_cm", 1.5)
	v.SetDefault("layout.margin_left_cm", 0.5)
	v.SetDefault("layout.margin_right_cm", 0.5)
	v.SetDefault("layout.margin_top_cm", 0.5)
	v.SetDefault("layout.margin_bottom_cm", 0.5)
	v.SetDefault("layout.font_family", "Calibri")

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.format", "docx")
	v.SetDefault("output.manifest_file", "output/.manifest.json")

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.bucket", "")
	v.SetDefault("storage.minio.prefix", "")

	v.SetDefault("generator.workers", 4)
	v.SetDefault("generator.fail_fast", false)
	v.SetDefault("generator.incremental", false)

	v.SetDefault("daemon.daily_time", "06:00")
	v.SetDefault("daemon.timezone", "Europe/Oslo")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file, .env and TIMETABLE_* environment
// variables on top of the built-in defaults. Without an explicit path a
// missing config file is not an error.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.timetable-generator")
		v.AddConfigPath("/etc/timetable-generator")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.School.ClassStart) == 0 {
		config.School.ClassStart = copyMap(defaultClassStart)
	}
	if len(config.School.Pauses) == 0 {
		config.School.Pauses = copyMap(defaultPauses)
	}

	config.ExpandEnvVars()
	if alias, ok := localeAliases[config.School.Locale]; ok {
		config.School.Locale = alias
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Subjects))
	for _, s := range c.Subjects {
		if seen[s.Code] {
			return fmt.Errorf("subjects: duplicate code %q", s.Code)
		}
		seen[s.Code] = true
	}

	if !knownLocale(c.School.Locale) {
		return fmt.Errorf("school.locale: unsupported locale %q", c.School.Locale)
	}

	if _, _, err := parseClock(c.Daemon.DailyTime); c.Daemon.DailyTime != "" && err != nil {
		return fmt.Errorf("daemon.daily_time: %w", err)
	}
	if _, err := time.LoadLocation(c.Daemon.Timezone); err != nil {
		return fmt.Errorf("daemon.timezone: %w", err)
	}

	if c.Storage.Type == "minio" {
		if c.Storage.Minio.Endpoint == "" {
			return fmt.Errorf("storage.minio.endpoint is required for minio storage")
		}
		if c.Storage.Minio.Bucket == "" {
			return fmt.Errorf("storage.minio.bucket is required for minio storage")
		}
	}

	return nil
}

func knownLocale(locale string) bool {
	for _, l := range monday.ListLocales() {
		if string(l) == locale {
			return true
		}
	}
	return false
}

func copyMap(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// GetDailyTime returns the configured daily run time. Default: 06:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	h, m, err := parseClock(c.DailyTime)
	if err != nil {
		return 6, 0
	}
	return h, m
}

// Location returns the daemon timezone, UTC when it cannot be loaded
func (c *DaemonConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetWorkers returns the worker count, at least 1
func (c *GeneratorConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

// SubjectCodes returns the configured codes
func (c *Config) SubjectCodes() []string {
	codes := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		codes[i] = s.Code
	}
	return codes
}

// Palette builds the renderer palette from the subject and color settings
func (c *Config) Palette() render.Palette {
	p := render.Palette{
		Subjects: make(map[string]string, len(c.Subjects)),
		Colors:   make(map[string]render.Colors, len(c.Subjects)),
		Holiday:  render.Colors{Text: c.Colors.Holiday.Text, Background: c.Colors.Holiday.Background},
		Accent:   render.Colors{Text: c.Colors.Accent.Text, Background: c.Colors.Accent.Background},
	}
	for _, s := range c.Subjects {
		p.Subjects[s.Code] = s.Name
		p.Colors[s.Name] = render.Colors{Text: s.Text, Background: s.Background}
	}
	return p
}

// RenderSettings returns the renderer settings
func (c *Config) RenderSettings() render.Settings {
	l := c.Layout
	return render.Settings{
		Palette:        c.Palette(),
		ClassStart:     c.School.ClassStart,
		Pauses:         c.School.Pauses,
		Notice:         c.School.Notice,
		Locale:         c.School.Locale,
		TimesColumnCm:  l.TimesColumnCm,
		ClassColumnCm:  l.ClassColumnCm,
		PeriodRowCm:    l.PeriodRowCm,
		MarginLeftCm:   l.MarginLeftCm,
		MarginRightCm:  l.MarginRightCm,
		MarginTopCm:    l.MarginTopCm,
		MarginBottomCm: l.MarginBottomCm,
		FontFamily:     l.FontFamily,
	}
}

// MinioSettings returns the object storage connection settings
func (c *Config) MinioSettings() storage.MinioConfig {
	m := c.Storage.Minio
	return storage.MinioConfig{
		Endpoint:  m.Endpoint,
		AccessKey: m.AccessKey,
		SecretKey: m.SecretKey,
		UseSSL:    m.UseSSL,
		Bucket:    m.Bucket,
		Prefix:    m.Prefix,
	}
}

// ExpandEnvVars expands environment variables in paths and credentials
func (c *Config) ExpandEnvVars() {
	c.Data.File = os.ExpandEnv(c.Data.File)
	c.Calendar.ExtraFile = os.ExpandEnv(c.Calendar.ExtraFile)
	c.Output.Dir = os.ExpandEnv(c.Output.Dir)
	c.Output.ManifestFile = os.ExpandEnv(c.Output.ManifestFile)
	c.Storage.Minio.AccessKey = os.ExpandEnv(c.Storage.Minio.AccessKey)
	c.Storage.Minio.SecretKey = os.ExpandEnv(c.Storage.Minio.SecretKey)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
