package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/fmxar/racer/config"
)

// Output file names inside a run directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	BookmarkFile  = "bookmarks.csv"
	EventFile     = "events.csv"
	ConfigFile    = "config.yaml"
)

// csvSink appends gocsv rows to one file, writing the header with the first batch.
type csvSink struct {
	name   string
	file   *os.File
	header bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{name: name, file: f}, nil
}

// appendRows writes rows to sink.
func appendRows[T any](sink *csvSink, rows []T) error {
	var err error
	if sink.header {
		err = gocsv.MarshalWithoutHeaders(rows, sink.file)
	} else {
		err = gocsv.Marshal(rows, sink.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", sink.name, err)
	}
	sink.header = true
	return nil
}

// OutputManager writes a run's CSV logs and config snapshot to one directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink
	perf      *csvSink
	bookmarks *csvSink
	events    *csvSink
}

// EventRecord is one events.csv row.
type EventRecord struct {
	Tick int32  `csv:"tick"`
	Type string `csv:"type"`
}

// NewOutputManager creates dir and opens the CSV files in it.
// It returns nil, nil when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, s := range []struct {
		dst  **csvSink
		name string
	}{
		{&om.telemetry, TelemetryFile},
		{&om.perf, PerfFile},
		{&om.bookmarks, BookmarkFile},
		{&om.events, EventFile},
	} {
		sink, err := openSink(dir, s.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*s.dst = sink
	}
	return om, nil
}

// WriteConfig snapshots cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends one window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return appendRows(om.telemetry, []WindowStats{stats})
}

// WritePerf appends one perf row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return appendRows(om.perf, []PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteBookmark appends a bookmark to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return appendRows(om.bookmarks, []Bookmark{b})
}

// WriteEvents appends transition events to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	records := make([]EventRecord, len(events))
	for i, e := range events {
		records[i] = EventRecord{Tick: e.Tick, Type: e.Type.String()}
	}
	return appendRows(om.events, records)
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open file and returns the joined errors.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, sink := range []*csvSink{om.telemetry, om.perf, om.bookmarks, om.events} {
		if sink == nil {
			continue
		}
		if err := sink.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", sink.name, err))
		}
	}
	return errors.Join(errs...)
}
