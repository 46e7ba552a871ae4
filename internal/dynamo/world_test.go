package dynamo

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// tickClock advances by tick every time it is read.
type tickClock struct {
	now  time.Time
	tick time.Duration
}

func (c *tickClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.tick)
	return t
}

func pairProvider(a, b *Body, cs ...func(a, b *Body) Constraint) Provider {
	return ProviderFunc(func(bodies *[]*Body, constraints *[]Constraint) {
		*bodies = append(*bodies, a, b)
		for _, mk := range cs {
			*constraints = append(*constraints, mk(a, b))
		}
	})
}

func distanceLink(a, b *Body) Constraint { return NewDistanceConstraint(a, b) }
func repelLink(a, b *Body) Constraint    { return NewRepelConstraint(a, b) }

func TestWorldWorkedExample(t *testing.T) {
	tests := []struct {
		name string
		pinA bool
	}{
		{"free pair", false},
		{"pinned top", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewBody(mgl64.Vec2{0, 0}, tt.pinA)
			b := NewBody(mgl64.Vec2{0, -1}, false)

			cfg := DefaultConfig()
			cfg.Timestep = 1.0 / 60
			cfg.Params = Params{}
			w, err := New(pairProvider(a, b, distanceLink), cfg)
			if err != nil {
				t.Fatalf("new world: %v", err)
			}

			w.Step(w.Timestep())

			sep := b.Position().Sub(a.Position()).Len()
			if math.Abs(sep-1) > 1e-9 {
				t.Errorf("separation = %g, want 1", sep)
			}
			if tt.pinA {
				if a.Position() != (mgl64.Vec2{0, 0}) {
					t.Errorf("pinned body moved to %v", a.Position())
				}
				return
			}
			if a.Position().Y() >= 0 || b.Position().Y() >= -1 {
				t.Errorf("bodies did not fall: a=%v b=%v", a.Position(), b.Position())
			}
		})
	}
}

func TestWorldUpdateFixedSteps(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)

	cfg := DefaultConfig()
	cfg.Timestep = 0.25
	cfg.Clock = &tickClock{tick: 0}
	w, err := New(pairProvider(a, b, distanceLink), cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	if n := w.Update(1.0); n != 4 {
		t.Errorf("steps = %d, want 4", n)
	}
	if w.SimulatedTime() != 1.0 || w.TargetTime() != 1.0 {
		t.Errorf("simulated %g target %g, want 1", w.SimulatedTime(), w.TargetTime())
	}

	// a partial frame runs one step and leaves simulated time ahead
	if n := w.Update(0.1); n != 1 {
		t.Errorf("steps = %d, want 1", n)
	}
	if n := w.Update(0.1); n != 0 {
		t.Errorf("steps = %d, want 0 while simulated time leads", n)
	}
	if w.Steps() != 5 {
		t.Errorf("total steps = %d, want 5", w.Steps())
	}
	if w.Stalls() != 0 {
		t.Errorf("stalls = %d, want 0", w.Stalls())
	}
}

func TestWorldTimescale(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)

	cfg := DefaultConfig()
	cfg.Timestep = 0.25
	cfg.Clock = &tickClock{}
	w, err := New(pairProvider(a, b, distanceLink), cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	w.Timescale = 0
	if n := w.Update(10); n != 0 {
		t.Errorf("paused world stepped %d times", n)
	}
	if a.Position() != (mgl64.Vec2{0, 0}) {
		t.Errorf("paused world moved bodies")
	}

	w.Timescale = 2
	if n := w.Update(0.5); n != 4 {
		t.Errorf("steps at timescale 2 = %d, want 4", n)
	}
}

func TestWorldBackpressure(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)

	cfg := DefaultConfig()
	cfg.Timestep = 0.01
	cfg.Clock = &tickClock{now: time.Unix(0, 0), tick: time.Second}
	w, err := New(pairProvider(a, b, distanceLink), cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	n := w.Update(0.5)
	if n != 1 {
		t.Errorf("steps = %d, want 1 before abandoning catch-up", n)
	}
	if w.SimulatedTime() != w.TargetTime() {
		t.Errorf("simulated %g != target %g after slow step", w.SimulatedTime(), w.TargetTime())
	}
	if w.Stalls() != 1 {
		t.Errorf("stalls = %d, want 1", w.Stalls())
	}
}

func TestWorldSever(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)
	w, err := New(pairProvider(a, b, distanceLink, repelLink), DefaultConfig())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	c := w.Constraints()[0]
	if !w.Sever(c) {
		t.Fatal("sever reported absent constraint")
	}
	for _, other := range w.Constraints() {
		if other == c {
			t.Fatal("severed constraint still present")
		}
	}
	if len(w.Constraints()) != 1 {
		t.Errorf("constraints = %d, want 1", len(w.Constraints()))
	}
	if len(w.Bodies()) != 2 || w.Body(a.ID()) != a || w.Body(b.ID()) != b {
		t.Errorf("bodies changed by sever")
	}
	if w.Sever(c) {
		t.Error("second sever should be a no-op")
	}
}

func TestWorldRejectsForeignBody(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)
	stray := NewBody(mgl64.Vec2{2, 0}, false)

	p := ProviderFunc(func(bodies *[]*Body, constraints *[]Constraint) {
		*bodies = append(*bodies, a, b)
		*constraints = append(*constraints, NewDistanceConstraint(b, stray))
	})

	if _, err := New(p, DefaultConfig()); !errors.Is(err, ErrForeignBody) {
		t.Errorf("err = %v, want ErrForeignBody", err)
	}
}

func TestWorldRejectsDuplicateBody(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	p := ProviderFunc(func(bodies *[]*Body, constraints *[]Constraint) {
		*bodies = append(*bodies, a, a)
	})

	if _, err := New(p, DefaultConfig()); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("err = %v, want ErrDuplicateBody", err)
	}
}

func TestWorldInvalidConfig(t *testing.T) {
	p := ProviderFunc(func(*[]*Body, *[]Constraint) {})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timestep", func(c *Config) { c.Timestep = 0 }},
		{"negative timestep", func(c *Config) { c.Timestep = -0.01 }},
		{"negative timescale", func(c *Config) { c.Timescale = -1 }},
		{"nan gravity", func(c *Config) { c.Gravity = mgl64.Vec2{math.NaN(), 0} }},
		{"damping above one", func(c *Config) { c.Params.Damping = 1.5 }},
		{"stretchiness above five", func(c *Config) { c.Params.Stretchiness = 6 }},
		{"negative repel", func(c *Config) { c.Params.RepelStrength = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(p, cfg); !errors.Is(err, ErrParameterBounds) {
				t.Errorf("err = %v, want ErrParameterBounds", err)
			}
		})
	}

	if _, err := New(nil, DefaultConfig()); !errors.Is(err, ErrNilProvider) {
		t.Errorf("nil provider err = %v", err)
	}
}

func TestWorldShuffleIsSeeded(t *testing.T) {
	build := func(seed int64) *World {
		p := ProviderFunc(func(bodies *[]*Body, constraints *[]Constraint) {
			for i := 0; i < 32; i++ {
				*bodies = append(*bodies, NewBody(mgl64.Vec2{float64(i), 0}, i == 0))
			}
			for i := 0; i+1 < 32; i++ {
				*constraints = append(*constraints, NewDistanceConstraint((*bodies)[i], (*bodies)[i+1]))
			}
		})
		cfg := DefaultConfig()
		cfg.Seed = seed
		w, err := New(p, cfg)
		if err != nil {
			t.Fatalf("new world: %v", err)
		}
		return w
	}

	order := func(w *World) []int {
		ids := make([]int, len(w.Bodies()))
		for i, b := range w.Bodies() {
			ids[i] = b.ID()
		}
		return ids
	}

	w1, w2 := build(7), build(7)
	o1, o2 := order(w1), order(w2)
	for i := range o1 {
		if o1[i] != o2[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", o1, o2)
		}
	}

	for i := 0; i < 20; i++ {
		w1.Step(w1.Timestep())
		w2.Step(w2.Timestep())
	}
	if w1.Checksum() != w2.Checksum() {
		t.Errorf("same seed diverged: %x vs %x", w1.Checksum(), w2.Checksum())
	}

	identity := true
	for i, id := range o1 {
		if id != i {
			identity = false
			break
		}
	}
	if identity {
		t.Error("bodies were not shuffled")
	}
}

func TestWorldEffectsRunEachStep(t *testing.T) {
	a := NewBody(mgl64.Vec2{0, 0}, false)
	b := NewBody(mgl64.Vec2{1, 0}, false)

	cfg := DefaultConfig()
	cfg.Timestep = 0.25
	cfg.Clock = &tickClock{}
	w, err := New(pairProvider(a, b, distanceLink), cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	counter := &countEffect{}
	w.AddEffect(counter)
	w.Update(1)

	if counter.calls != 4 {
		t.Errorf("effect applied %d times, want 4", counter.calls)
	}
	if counter.dt != 0.25 {
		t.Errorf("effect dt = %g, want 0.25", counter.dt)
	}
}

type countEffect struct {
	calls int
	dt    float64
}

func (c *countEffect) Apply(w *World, dt float64) {
	c.calls++
	c.dt = dt
}
