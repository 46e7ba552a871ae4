package models

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/clothsim/internal/dynamo"
)

// Rope is a vertical chain hanging from a pinned body at the origin.
type Rope struct {
	Segments int
	Length   float64
}

func NewRope(segments int, length float64) *Rope {
	return &Rope{Segments: segments, Length: length}
}

func (r *Rope) Validate() error {
	if r.Segments < 1 {
		return fmt.Errorf("rope needs at least one segment, got %d", r.Segments)
	}
	if r.Length <= 0 {
		return fmt.Errorf("rope length must be positive, got %g", r.Length)
	}
	return nil
}

func (r *Rope) Populate(bodies *[]*dynamo.Body, constraints *[]dynamo.Constraint) {
	segment := r.Length / float64(r.Segments)
	start := len(*bodies)

	for i := 0; i <= r.Segments; i++ {
		*bodies = append(*bodies, dynamo.NewBody(mgl64.Vec2{0, -segment * float64(i)}, i == 0))
	}

	chain := (*bodies)[start:]
	for i := 0; i < r.Segments; i++ {
		*constraints = append(*constraints, dynamo.NewDistanceConstraint(chain[i], chain[i+1]))
	}
}
