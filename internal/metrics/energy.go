package metrics

import "github.com/san-kum/clothsim/internal/dynamo"

// KineticEnergy averages the total kinetic energy of unpinned unit-mass
// bodies. Velocity is recovered from the last Verlet step.
type KineticEnergy struct {
	name    string
	current float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(w *dynamo.World) {
	e.current = Kinetic(w)
	e.total += e.current
	e.samples++
}

func (e *KineticEnergy) Current() float64 { return e.current }

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.total = 0
	e.samples = 0
}

// Kinetic returns Σ|v|²/2 over unpinned bodies of w.
func Kinetic(w *dynamo.World) float64 {
	dt := w.Timestep()
	ke := 0.0
	for _, b := range w.Bodies() {
		if b.Pinned {
			continue
		}
		v := b.Velocity().Mul(1 / dt)
		ke += 0.5 * v.Dot(v)
	}
	return ke
}
