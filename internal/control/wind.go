package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Wind pushes every body horizontally with a strength that oscillates
// between Min and Max. It keeps its own simulated clock, so the gust
// pattern follows simulated time rather than frames.
type Wind struct {
	Enabled   bool
	Min, Max  float64
	Frequency float64
	// Direction is -1 for left, +1 for right.
	Direction float64

	t float64
}

func NewWind(min, max, frequency float64, direction int) *Wind {
	return &Wind{
		Min:       min,
		Max:       max,
		Frequency: frequency,
		Direction: float64(direction),
	}
}

// Strength is the current unsigned wind strength, 0 when disabled.
func (wd *Wind) Strength() float64 {
	if !wd.Enabled {
		return 0
	}
	phase := (math.Sin(wd.t*wd.Frequency) + 1) / 2
	return wd.Min + (wd.Max-wd.Min)*phase
}

func (wd *Wind) Time() float64 { return wd.t }

func (wd *Wind) Apply(w *dynamo.World, dt float64) {
	force := mgl64.Vec2{wd.Direction * wd.Strength(), 0}
	wd.t += dt
	if force[0] == 0 {
		return
	}
	for _, b := range w.Bodies() {
		b.Accelerate(force)
	}
}
