package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

// Store keeps run summaries on disk, one directory per run. A stored run can
// be listed and plotted but not resumed.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Timestep  float64            `json:"timestep"`
	Duration  float64            `json:"duration"`
	FrameRate float64            `json:"frame_rate"`
	Params    dynamo.Params      `json:"params"`
	Bodies    int                `json:"bodies"`
	Steps     int                `json:"steps"`
	Stalls    int                `json:"stalls"`
	Checksum  string             `json:"checksum"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run describes the run being saved. Result fields fill the rest.
type Run struct {
	Scene     string
	Seed      int64
	Timestep  float64
	Duration  float64
	FrameRate float64
	Params    dynamo.Params
	Bodies    int
}

func (s *Store) Save(run Run, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", run.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     run.Scene,
		Timestamp: now,
		Seed:      run.Seed,
		Timestep:  run.Timestep,
		Duration:  run.Duration,
		FrameRate: run.FrameRate,
		Params:    run.Params,
		Bodies:    run.Bodies,
		Steps:     result.Steps,
		Stalls:    result.Stalls,
		Checksum:  fmt.Sprintf("%016x", result.Checksum),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, "metrics.csv"), result.Times, result.Series); err != nil {
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

func writeSeries(path string, times []float64, series map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i, t := range times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			val := 0.0
			if i < len(series[name]) {
				val = series[name][i]
			}
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
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

	runs := make([]RunMetadata, 0)
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads the metric series of a run back as times plus one slice
// per metric name.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "metrics.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) < 2 {
		return []float64{}, series, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(header); j++ {
			val := 0.0
			if j < len(record) {
				val, _ = strconv.ParseFloat(record[j], 64)
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}
