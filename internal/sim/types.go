package sim

import (
	"time"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Metric accumulates a statistic over the frames of a run.
type Metric interface {
	Name() string
	Observe(w *dynamo.World)
	// Current is the most recent sample.
	Current() float64
	// Value summarizes every sample since the last Reset.
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(w *dynamo.World, t float64)
}

type ObserverFunc func(w *dynamo.World, t float64)

func (f ObserverFunc) OnFrame(w *dynamo.World, t float64) { f(w, t) }

// Config drives a headless run. Each frame feeds 1/FrameRate seconds of
// wall time into the world's accumulator.
type Config struct {
	FrameRate float64
	Duration  float64
	// RecordEvery samples metric series every n frames; 0 means every frame.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		FrameRate:   60,
		Duration:    10,
		RecordEvery: 1,
	}
}

type Result struct {
	Frames   int
	Steps    int
	Stalls   int
	SimTime  float64
	Checksum uint64
	Elapsed  time.Duration

	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
}

// StepsPerSecond is the wall-clock stepping rate of the run.
func (r *Result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Elapsed.Seconds()
}
