package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// WorldFactory builds an independent world for one ensemble member.
type WorldFactory func(seed int64) (*dynamo.World, error)

// MetricFactory builds fresh metric instances; metrics are never shared
// between goroutines.
type MetricFactory func() []Metric

// Ensemble runs the same scene under consecutive seeds, one goroutine and one
// world per member.
type Ensemble struct {
	build     WorldFactory
	metrics   MetricFactory
	numRuns   int
	seedStart int64
	log       logrus.FieldLogger
}

func NewEnsemble(build WorldFactory, metrics MetricFactory, numRuns int, seedStart int64, log logrus.FieldLogger) *Ensemble {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart, log: log}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			w, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}

			sim := New(e.log.WithField("seed", seed))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, w, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
