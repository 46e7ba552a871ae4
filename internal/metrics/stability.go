package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Stability is the fraction of samples in which every body stayed within
// threshold of the origin on both axes.
type Stability struct {
	name       string
	threshold  float64
	inside     bool
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		inside:    true,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *dynamo.World) {
	s.samples++
	s.inside = true
	for _, b := range w.Bodies() {
		p := b.Position()
		if math.Abs(p.X()) > s.threshold || math.Abs(p.Y()) > s.threshold {
			s.violations++
			s.inside = false
			break
		}
	}
}

func (s *Stability) Current() float64 {
	if s.inside {
		return 1
	}
	return 0
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.inside = true
}
