package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames:   3,
		Steps:    5,
		Stalls:   1,
		Checksum: 0xdeadbeef,
		Times:    []float64{0, 0.5, 1},
		Series: map[string][]float64{
			"kinetic_energy": {0, 1.25, 0.75},
			"constraints":    {4, 4, 3},
		},
		Metrics: map[string]float64{"kinetic_energy": 0.666, "constraints": 3},
	}
}

func sampleRun() Run {
	return Run{
		Scene:     "rope",
		Seed:      7,
		Timestep:  0.01,
		Duration:  1,
		FrameRate: 2,
		Params:    dynamo.DefaultParams(),
		Bodies:    3,
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	id, err := s.Save(sampleRun(), sampleResult())
	require.NoError(t, err)
	assert.Contains(t, id, "rope_")

	meta, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "rope", meta.Scene)
	assert.Equal(t, int64(7), meta.Seed)
	assert.Equal(t, 5, meta.Steps)
	assert.Equal(t, 1, meta.Stalls)
	assert.Equal(t, "00000000deadbeef", meta.Checksum)
	assert.Equal(t, 0.2, meta.Params.Damping)
	assert.InDelta(t, 0.666, meta.Metrics["kinetic_energy"], 1e-12)

	times, series, err := s.LoadSeries(id)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, times)
	assert.Equal(t, []float64{0, 1.25, 0.75}, series["kinetic_energy"])
	assert.Equal(t, []float64{4, 4, 3}, series["constraints"])
}

func TestSeriesColumnsSorted(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(sampleRun(), sampleResult())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metrics.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("time,constraints,kinetic_energy\n")))
}

func TestList(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := s.Save(sampleRun(), sampleResult())
	require.NoError(t, err)
	run := sampleRun()
	run.Scene = "cloth"
	second, err := s.Save(run, sampleResult())
	require.NoError(t, err)

	// stray files and broken runs are skipped
	require.NoError(t, os.WriteFile(filepath.Join(s.baseDir, "notes.txt"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(s.baseDir, "broken"), 0755))

	runs, err = s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("nope")
	assert.Error(t, err)
	_, _, err = s.LoadSeries("nope")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(sampleRun(), sampleResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(&buf, id))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, id, out.ID)
	assert.Equal(t, "rope", out.Scene)
	assert.Len(t, out.Times, 3)
	assert.Equal(t, []float64{4, 4, 3}, out.Series["constraints"])
}
