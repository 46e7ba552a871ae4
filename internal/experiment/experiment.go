package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

// Experiment is a built scene plus the runner and wind effect attached to it.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	world     *dynamo.World
	wind      *control.Wind
	simulator *sim.Simulator
	log       logrus.FieldLogger
}

func New(cfg *config.Config, registry *Registry, log logrus.FieldLogger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		log:      log.WithFields(logrus.Fields{"scene": cfg.Scene, "seed": cfg.Seed}),
	}
}

// Setup builds the world, attaches wind and the default metrics. Calling it
// again rebuilds everything from the config.
func (e *Experiment) Setup() error {
	w, err := e.registry.Build(e.cfg)
	if err != nil {
		return err
	}

	wind := control.NewWind(e.cfg.Wind.Min, e.cfg.Wind.Max, e.cfg.Wind.Frequency, e.cfg.Wind.Direction)
	wind.Enabled = e.cfg.Wind.Enabled
	w.AddEffect(wind)

	e.world = w
	e.wind = wind
	e.simulator = sim.New(e.log)
	for _, m := range e.registry.DefaultMetrics(e.cfg) {
		e.simulator.AddMetric(m)
	}

	e.log.WithFields(logrus.Fields{
		"bodies":      len(w.Bodies()),
		"constraints": len(w.Constraints()),
	}).Debug("scene built")
	return nil
}

// Reset rebuilds the scene but keeps the live settings of the current world:
// gravity, timescale, solver parameters and wind.
func (e *Experiment) Reset() error {
	if e.world == nil {
		return e.Setup()
	}
	old, wind := e.world, *e.wind

	if err := e.Setup(); err != nil {
		return err
	}
	e.world.Gravity = old.Gravity
	e.world.Timescale = old.Timescale
	e.world.Params = old.Params
	e.wind.Enabled, e.wind.Direction = wind.Enabled, wind.Direction
	e.wind.Min, e.wind.Max, e.wind.Frequency = wind.Min, wind.Max, wind.Frequency
	return nil
}

func (e *Experiment) Run(ctx context.Context, cfg sim.Config) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.world, cfg)
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) World() *dynamo.World   { return e.world }
func (e *Experiment) Wind() *control.Wind    { return e.wind }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
