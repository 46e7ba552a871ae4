package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DistanceConstraint keeps two bodies near a rest length.
type DistanceConstraint struct {
	Link
	Rest float64
}

// NewDistanceConstraint uses the current separation of a and b as rest length.
func NewDistanceConstraint(a, b *Body) *DistanceConstraint {
	return NewDistanceConstraintWithLength(a, b, b.Position().Sub(a.Position()).Len())
}

func NewDistanceConstraintWithLength(a, b *Body, rest float64) *DistanceConstraint {
	return &DistanceConstraint{Link: Link{A: a, B: b}, Rest: rest}
}

func (c *DistanceConstraint) Update(dt float64, w *World) {
	axis := c.B.position.Sub(c.A.position)
	distance := axis.Len()
	if distance == 0 {
		return
	}
	// dividing keeps the axis finite for subnormal distances
	axis = mgl64.Vec2{axis[0] / distance, axis[1] / distance}

	diff := Soften(distance-c.Rest, w.Params.Stretchiness)
	wa, wb := PinWeights(c.A, c.B)

	c.A.SetPosition(c.A.position.Add(axis.Mul(diff * wa)))
	c.B.SetPosition(c.B.position.Sub(axis.Mul(diff * wb)))
}

// Soften blends |diff| toward min(1, diff²) by stretchiness and restores the
// sign. At 0 the correction is linear; larger values damp big stretches more
// than small ones.
func Soften(diff, stretchiness float64) float64 {
	mag := math.Abs(diff)
	mag += (math.Min(1, diff*diff) - mag) * stretchiness
	return sign(diff) * mag
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
