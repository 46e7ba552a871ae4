package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/clothsim/internal/dynamo"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	log       logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Simulator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Metrics() []Metric { return s.metrics }

// Run feeds fixed frames into w until Duration seconds of frames have passed
// or ctx is done. On cancellation the partial result is returned with the
// context error.
func (s *Simulator) Run(ctx context.Context, w *dynamo.World, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.RecordEvery == 0 {
		cfg.RecordEvery = 1
	}

	frames := int(math.Round(cfg.Duration * cfg.FrameRate))
	frameDelta := 1 / cfg.FrameRate
	samples := frames/cfg.RecordEvery + 1

	result := &Result{
		Times:   make([]float64, 0, samples),
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	start := time.Now()
	stallsBefore := w.Stalls()
	t := 0.0

	s.record(result, w, t)

	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, w, start, stallsBefore)
			return result, ctx.Err()
		default:
		}

		stalls := w.Stalls()
		result.Steps += w.Update(frameDelta)
		result.Frames++
		t = float64(i) * frameDelta

		if w.Stalls() > stalls {
			s.log.WithFields(logrus.Fields{
				"frame":  i,
				"time":   t,
				"stalls": w.Stalls(),
			}).Debug("step exceeded timestep, dropped catch-up")
		}

		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnFrame(w, t)
		}
		if i%cfg.RecordEvery == 0 {
			s.record(result, w, t)
		}
	}

	s.finish(result, w, start, stallsBefore)
	return result, nil
}

func (s *Simulator) record(result *Result, w *dynamo.World, t float64) {
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		if len(result.Times) == 1 {
			m.Observe(w)
		}
		result.Series[m.Name()] = append(result.Series[m.Name()], m.Current())
	}
}

func (s *Simulator) finish(result *Result, w *dynamo.World, start time.Time, stallsBefore int) {
	result.Elapsed = time.Since(start)
	result.Stalls = w.Stalls() - stallsBefore
	result.SimTime = w.SimulatedTime()
	result.Checksum = w.Checksum()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.WithFields(logrus.Fields{
		"frames":  result.Frames,
		"steps":   result.Steps,
		"stalls":  result.Stalls,
		"elapsed": result.Elapsed,
	}).Debug("run finished")
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %f", cfg.FrameRate)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d", cfg.RecordEvery)
	}
	return nil
}

// RunWithCallback steps w one frame at a time until callback returns false,
// Duration elapses, or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, w *dynamo.World, cfg Config, callback func(w *dynamo.World, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	frameDelta := 1 / cfg.FrameRate
	for t := 0.0; t < cfg.Duration; t += frameDelta {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(w, t) {
			return nil
		}
		w.Update(frameDelta)
	}
	return nil
}
