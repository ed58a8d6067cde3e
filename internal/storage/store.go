// Package storage keeps finished scenario runs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	eventsFile   = "events.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Events    map[string]int     `json:"events"`
	Disabled  []string           `json:"disabled,omitempty"`
	Skipped   int                `json:"skipped"`
}

// Save writes the run's metadata, frames and events under a fresh run id.
func (s *Store) Save(preset string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", result.Scenario, uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  result.Scenario,
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
		Events:    make(map[string]int),
		Disabled:  result.Disabled,
		Skipped:   result.Skipped,
	}
	for _, e := range result.Events {
		meta.Events[e.Kind.String()]++
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	events := result.Events
	if events == nil {
		events = []interact.Event{}
	}
	if err := writeJSON(filepath.Join(runDir, eventsFile), events); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// writeFrames lays out one row per tick. Hand and body columns follow the
// order of the first frame.
func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(frames) > 0 {
		header := []string{"time"}
		for _, h := range frames[0].Hands {
			p := string(h.Side)
			header = append(header, p+"_x", p+"_y", p+"_z", p+"_tracked")
		}
		for _, b := range frames[0].Bodies {
			header = append(header, b.Name+"_x", b.Name+"_y", b.Name+"_z", b.Name+"_state")
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for _, fr := range frames {
		row := []string{formatFloat(fr.Time)}
		for _, h := range fr.Hands {
			tracked := "0"
			if h.Tracked {
				tracked = "1"
			}
			row = append(row, formatFloat(h.Position[0]), formatFloat(h.Position[1]), formatFloat(h.Position[2]), tracked)
		}
		for _, b := range fr.Bodies {
			row = append(row,
				formatFloat(b.Position[0]), formatFloat(b.Position[1]), formatFloat(b.Position[2]),
				strconv.Itoa(int(b.State)))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]interact.Event, error) {
	data, err := s.read(runID, eventsFile)
	if err != nil {
		return nil, err
	}
	var events []interact.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return events, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return data, err
}

// FrameTable is frames.csv read back as numbers.
type FrameTable struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns the series for a named column, time included.
func (t *FrameTable) Column(name string) ([]float64, bool) {
	if name == "time" {
		return t.Times, true
	}
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for j, row := range t.Rows {
			if i < len(row) {
				out[j] = row[i]
			}
		}
		return out, true
	}
	return nil, false
}

func (s *Store) LoadFrames(runID string) (*FrameTable, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	table := &FrameTable{}
	if len(records) == 0 {
		return table, nil
	}
	table.Columns = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			row = append(row, v)
		}
		table.Times = append(table.Times, t)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
