package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a point mass whose velocity is implicit in the difference between
// its current and previous position.
type Body struct {
	id           int
	position     mgl64.Vec2
	lastPosition mgl64.Vec2
	force        mgl64.Vec2

	// Pinned bodies are skipped by integration and absorb no constraint
	// correction. They can still be moved with SetPosition.
	Pinned bool
}

// NewBody returns a body at rest at pos.
func NewBody(pos mgl64.Vec2, pinned bool) *Body {
	b := &Body{id: -1, Pinned: pinned}
	b.SetPosition(pos)
	b.lastPosition = pos
	return b
}

// ID is the body's index in population order, or -1 before it joins a World.
func (b *Body) ID() int { return b.id }

func (b *Body) Position() mgl64.Vec2     { return b.position }
func (b *Body) LastPosition() mgl64.Vec2 { return b.lastPosition }

// Velocity is the displacement over the last step, not divided by dt.
func (b *Body) Velocity() mgl64.Vec2 { return b.position.Sub(b.lastPosition) }

// Force is the acceleration queued for the next integration.
func (b *Body) Force() mgl64.Vec2 { return b.force }

// SetPosition moves the body. It panics if p is not finite.
func (b *Body) SetPosition(p mgl64.Vec2) {
	invariant(finite(p), "Body.SetPosition", b, p, ErrNonFinite)
	b.position = p
}

// Accelerate queues a for the next integration step. Calls accumulate.
func (b *Body) Accelerate(a mgl64.Vec2) {
	b.force = b.force.Add(a)
}

// Update advances the body one step with Störmer–Verlet integration.
// damping is the fraction of velocity lost per unit of simulated time.
func (b *Body) Update(dt float64, gravity mgl64.Vec2, damping float64) {
	if b.Pinned {
		b.force = mgl64.Vec2{}
		return
	}

	velocity := b.position.Sub(b.lastPosition)
	b.lastPosition = b.position

	accel := b.force.Add(gravity)
	b.force = mgl64.Vec2{}

	k := math.Pow(1-damping, dt)
	b.SetPosition(b.position.Add(velocity.Mul(k)).Add(accel.Mul(dt * dt)))
}
