package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxRepelForce caps repulsion at near-zero separation.
const MaxRepelForce = 10.0

// RepelConstraint pushes two bodies apart with a force that falls off with
// distance. It queues acceleration instead of moving positions, so its effect
// lands on the next integration.
type RepelConstraint struct {
	Link
	Rest float64
}

// NewRepelConstraint uses the current separation of a and b as rest distance.
func NewRepelConstraint(a, b *Body) *RepelConstraint {
	return NewRepelConstraintWithDistance(a, b, b.Position().Sub(a.Position()).Len())
}

func NewRepelConstraintWithDistance(a, b *Body, rest float64) *RepelConstraint {
	return &RepelConstraint{Link: Link{A: a, B: b}, Rest: rest}
}

func (c *RepelConstraint) Update(dt float64, w *World) {
	if c.A.position == c.B.position {
		return
	}

	axis := c.B.position.Sub(c.A.position)
	distance := axis.Len()
	// Len uses hypot, so distinct positions never reach zero here
	invariant(distance != 0, "RepelConstraint.Update", c.B, c.B.position, ErrCoincident)
	axis = mgl64.Vec2{axis[0] / distance, axis[1] / distance}

	force := RepelForce(w.Params.RepelStrength, c.Rest, distance)
	wa, wb := PinWeights(c.A, c.B)

	c.A.Accelerate(axis.Mul(-force * wa))
	c.B.Accelerate(axis.Mul(force * wb))
}

// RepelForce is strength·rest/distance, capped at MaxRepelForce.
func RepelForce(strength, rest, distance float64) float64 {
	return math.Min(MaxRepelForce, strength*rest/distance)
}
