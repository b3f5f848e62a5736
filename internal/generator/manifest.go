package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/username/timetable-generator/internal/schedule"
	"github.com/username/timetable-generator/pkg/dateutil"
)

// ManifestEntry records the last generated document of one job
type ManifestEntry struct {
	Class       string `json:"class"`
	Week        string `json:"week"`
	Format      string `json:"format"`
	Location    string `json:"location"`
	Fingerprint string `json:"fingerprint"`
	GeneratedAt string `json:"generated_at"`
}

type manifestFile struct {
	UpdatedAt string                   `json:"updated_at"`
	Documents map[string]ManifestEntry `json:"documents"` // job key -> entry
}

// Manifest keeps track of generated documents between runs
type Manifest struct {
	path    string
	mu      sync.Mutex
	entries map[string]ManifestEntry
	logger  *zap.Logger
}

// NewManifest creates a manifest stored at path
func NewManifest(path string, logger *zap.Logger) *Manifest {
	return &Manifest{
		path:    path,
		entries: make(map[string]ManifestEntry),
		logger:  logger,
	}
}

// Load reads the manifest file. A missing file is an empty manifest.
func (m *Manifest) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if file.Documents != nil {
		m.entries = file.Documents
	}

	m.logger.Info("Manifest loaded",
		zap.String("path", m.path),
		zap.Int("documents", len(m.entries)))

	return nil
}

// Save writes the manifest file
func (m *Manifest) Save() error {
	m.mu.Lock()
	data, err := json.MarshalIndent(manifestFile{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Documents: m.entries,
	}, "", "  ")
	count := len(m.entries)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	m.logger.Debug("Manifest saved",
		zap.String("path", m.path),
		zap.Int("documents", count))

	return nil
}

// Entry returns the recorded entry of a job
func (m *Manifest) Entry(job Job) (ManifestEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[job.Key()]
	return e, ok
}

// Unchanged reports whether the job was generated before with the same fingerprint
func (m *Manifest) Unchanged(job Job, fingerprint string) bool {
	e, ok := m.Entry(job)
	return ok && e.Fingerprint == fingerprint
}

// Record stores the outcome of a generated job
func (m *Manifest) Record(job Job, format, location, fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[job.Key()] = ManifestEntry{
		Class:       job.Class,
		Week:        job.Week.String(),
		Format:      format,
		Location:    location,
		Fingerprint: fingerprint,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}
}

// Len returns the number of recorded documents
func (m *Manifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Fingerprint hashes everything that ends up in a document: the format, the
// renderer settings version, the dates and the merged days
func Fingerprint(format, settings string, dates schedule.DateRange, days []schedule.DayColumn) string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(format)
	write(settings)
	for _, d := range dates {
		write(dateutil.DateKey(d))
	}
	for _, day := range days {
		if day.IsOff {
			write(day.Marker())
			continue
		}
		write(strconv.Itoa(len(day.Periods)))
		for _, p := range day.Periods {
			write(p.Kind.String())
			write(p.Subject)
			write(p.Description)
			for _, n := range p.Notes {
				write(n)
			}
		}
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
