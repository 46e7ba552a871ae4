package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// MaxStretch tracks the largest relative deviation from rest length over all
// live distance constraints.
type MaxStretch struct {
	name    string
	current float64
	max     float64
}

func NewMaxStretch() *MaxStretch {
	return &MaxStretch{name: "max_stretch"}
}

func (m *MaxStretch) Name() string { return m.name }

func (m *MaxStretch) Observe(w *dynamo.World) {
	m.current = Stretch(w)
	m.max = math.Max(m.max, m.current)
}

func (m *MaxStretch) Current() float64 { return m.current }
func (m *MaxStretch) Value() float64   { return m.max }

func (m *MaxStretch) Reset() {
	m.current = 0
	m.max = 0
}

func Stretch(w *dynamo.World) float64 {
	worst := 0.0
	for _, c := range w.Constraints() {
		d, ok := c.(*dynamo.DistanceConstraint)
		if !ok || d.Rest == 0 {
			continue
		}
		length := d.B.Position().Sub(d.A.Position()).Len()
		worst = math.Max(worst, math.Abs(length-d.Rest)/d.Rest)
	}
	return worst
}
