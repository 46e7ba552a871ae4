package dynamo

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Provider fills empty body and constraint collections with an initial scene.
// Every constraint must reference only bodies it appends to bodies.
type Provider interface {
	Populate(bodies *[]*Body, constraints *[]Constraint)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(bodies *[]*Body, constraints *[]Constraint)

func (f ProviderFunc) Populate(bodies *[]*Body, constraints *[]Constraint) { f(bodies, constraints) }

// Effect queues forces at the start of every step, before integration.
// Effects applied this way scale with the step rate, not the frame rate.
type Effect interface {
	Apply(w *World, dt float64)
}

// Clock measures the wall-clock cost of a step.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Params are the solver tunables. The host owns them and may change them
// between frames.
type Params struct {
	Damping       float64 `yaml:"damping" json:"damping"`
	Stretchiness  float64 `yaml:"stretchiness" json:"stretchiness"`
	RepelStrength float64 `yaml:"repel_strength" json:"repel_strength"`
}

func DefaultParams() Params {
	return Params{
		Damping:       0.2,
		Stretchiness:  0,
		RepelStrength: 1,
	}
}

func (p Params) Validate() error {
	if p.Damping < 0 || p.Damping > 1 {
		return fmt.Errorf("damping %g not in [0, 1]: %w", p.Damping, ErrParameterBounds)
	}
	if p.Stretchiness < 0 || p.Stretchiness > 5 {
		return fmt.Errorf("stretchiness %g not in [0, 5]: %w", p.Stretchiness, ErrParameterBounds)
	}
	if p.RepelStrength < 0 || p.RepelStrength > 10 {
		return fmt.Errorf("repel strength %g not in [0, 10]: %w", p.RepelStrength, ErrParameterBounds)
	}
	return nil
}

type Config struct {
	Timestep  float64
	Timescale float64
	Gravity   mgl64.Vec2
	Seed      int64
	Params    Params
	// Clock defaults to the system clock.
	Clock Clock
}

func DefaultConfig() Config {
	return Config{
		Timestep:  0.01,
		Timescale: 1,
		Gravity:   mgl64.Vec2{0, -1},
		Params:    DefaultParams(),
	}
}

func (c Config) Validate() error {
	if c.Timestep <= 0 {
		return fmt.Errorf("timestep must be positive, got %g: %w", c.Timestep, ErrParameterBounds)
	}
	if c.Timescale < 0 {
		return fmt.Errorf("timescale must not be negative, got %g: %w", c.Timescale, ErrParameterBounds)
	}
	if !finite(c.Gravity) {
		return fmt.Errorf("gravity (%g, %g): %w", c.Gravity[0], c.Gravity[1], ErrParameterBounds)
	}
	return c.Params.Validate()
}

// World owns a constraint network and steps it at a fixed rate.
type World struct {
	Gravity   mgl64.Vec2
	Timescale float64
	Params    Params

	bodies      []*Body
	byID        []*Body
	constraints []Constraint
	effects     []Effect

	timestep      float64
	simulatedTime float64
	targetTime    float64
	steps         int
	stalls        int
	clock         Clock
}

// New populates a world from p and shuffles both collections once with a
// source seeded from cfg.Seed.
func New(p Provider, cfg Config) (*World, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var bodies []*Body
	var constraints []Constraint
	p.Populate(&bodies, &constraints)

	owned := make(map[*Body]struct{}, len(bodies))
	for i, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("body %d is nil: %w", i, ErrForeignBody)
		}
		if _, dup := owned[b]; dup {
			return nil, fmt.Errorf("body %d: %w", i, ErrDuplicateBody)
		}
		owned[b] = struct{}{}
		b.id = i
	}
	for i, c := range constraints {
		a, b := c.Bodies()
		_, okA := owned[a]
		_, okB := owned[b]
		if !okA || !okB {
			return nil, fmt.Errorf("constraint %d: %w", i, ErrForeignBody)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	w := &World{
		Gravity:     cfg.Gravity,
		Timescale:   cfg.Timescale,
		Params:      cfg.Params,
		bodies:      bodies,
		byID:        slices.Clone(bodies),
		constraints: constraints,
		timestep:    cfg.Timestep,
		clock:       clock,
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	rng.Shuffle(len(w.bodies), func(i, j int) { w.bodies[i], w.bodies[j] = w.bodies[j], w.bodies[i] })
	rng.Shuffle(len(w.constraints), func(i, j int) {
		w.constraints[i], w.constraints[j] = w.constraints[j], w.constraints[i]
	})

	return w, nil
}

// Bodies returns the bodies in stepping order. Callers must not reorder it.
func (w *World) Bodies() []*Body { return w.bodies }

// Body returns the body with the given id, or nil.
func (w *World) Body(id int) *Body {
	if id < 0 || id >= len(w.byID) {
		return nil
	}
	return w.byID[id]
}

// Constraints returns the live constraints in stepping order. The slice is
// invalidated by Sever.
func (w *World) Constraints() []Constraint { return w.constraints }

func (w *World) AddEffect(e Effect) { w.effects = append(w.effects, e) }

func (w *World) Timestep() float64      { return w.timestep }
func (w *World) SimulatedTime() float64 { return w.simulatedTime }
func (w *World) TargetTime() float64    { return w.targetTime }

// Steps is the number of steps taken since construction.
func (w *World) Steps() int { return w.steps }

// Stalls counts Update calls that abandoned catch-up because a step ran
// longer than the timestep.
func (w *World) Stalls() int { return w.stalls }

// Update advances the accumulator by frameDelta scaled by Timescale and runs
// fixed steps until simulated time catches up. It returns the steps taken.
func (w *World) Update(frameDelta float64) int {
	w.targetTime += frameDelta * w.Timescale

	budget := time.Duration(w.timestep * float64(time.Second))
	n := 0
	for w.Timescale != 0 && w.simulatedTime < w.targetTime {
		start := w.clock.Now()
		w.Step(w.timestep)
		w.simulatedTime += w.timestep
		n++

		if w.clock.Now().Sub(start) > budget {
			w.simulatedTime = w.targetTime
			w.stalls++
		}
	}
	return n
}

// Step applies effects, integrates every body once, then relaxes every
// constraint once, each in stored order.
func (w *World) Step(dt float64) {
	for _, e := range w.effects {
		e.Apply(w, dt)
	}
	for _, b := range w.bodies {
		b.Update(dt, w.Gravity, w.Params.Damping)
	}
	for _, c := range w.constraints {
		c.Update(dt, w)
	}
	w.steps++
}

// Sever removes c from the world. It reports whether c was present.
func (w *World) Sever(c Constraint) bool {
	i := slices.Index(w.constraints, c)
	if i < 0 {
		return false
	}
	w.constraints = slices.Delete(w.constraints, i, i+1)
	return true
}
