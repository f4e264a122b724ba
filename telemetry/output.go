package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/daisyworld/config"
)

// csvWriter appends records to one CSV file, writing the header only once.
type csvWriter struct {
	file          *os.File
	headerWritten bool
}

func (w *csvWriter) write(records any) error {
	if !w.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w.file); err != nil {
			return err
		}
		w.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, w.file)
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir        string
	luminosity *csvWriter
	cycles     *csvWriter
	perf       *csvWriter
	bookmarks  *csvWriter
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **csvWriter
	}{
		{"luminosity.csv", &om.luminosity},
		{"cycles.csv", &om.cycles},
		{"perf.csv", &om.perf},
		{"bookmarks.csv", &om.bookmarks},
	}
	for _, f := range files {
		file, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = &csvWriter{file: file}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteLuminosity writes a luminosity step record to luminosity.csv.
func (om *OutputManager) WriteLuminosity(stats LuminosityStats) error {
	if om == nil {
		return nil
	}
	if err := om.luminosity.write([]LuminosityStats{stats}); err != nil {
		return fmt.Errorf("writing luminosity stats: %w", err)
	}
	return nil
}

// WriteCycle writes a cycle record to cycles.csv.
func (om *OutputManager) WriteCycle(stats CycleStats) error {
	if om == nil {
		return nil
	}
	if err := om.cycles.write([]CycleStats{stats}); err != nil {
		return fmt.Errorf("writing cycle stats: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, step int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(step)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteSnapshot saves a grid snapshot as JSON in the output directory.
func (om *OutputManager) WriteSnapshot(s *Snapshot) (string, error) {
	if om == nil || s == nil {
		return "", nil
	}
	return SaveSnapshot(s, filepath.Join(om.dir, "snapshots"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, w := range []*csvWriter{om.luminosity, om.cycles, om.perf, om.bookmarks} {
		if w == nil || w.file == nil {
			continue
		}
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
