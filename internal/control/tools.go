package control

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func near(b *dynamo.Body, p mgl64.Vec2, radius float64) bool {
	return b.Position().Sub(p).Len() < radius
}

// Drag shifts unpinned bodies near from by the cursor motion to-from, so
// the cloth follows the cursor.
func Drag(w *dynamo.World, from, to mgl64.Vec2, radius float64) int {
	delta := to.Sub(from)
	n := 0
	for _, b := range w.Bodies() {
		if b.Pinned || !near(b, from, radius) {
			continue
		}
		b.SetPosition(b.Position().Add(delta))
		n++
	}
	return n
}

// Cut severs every constraint with an endpoint within radius of p and
// returns how many were removed.
func Cut(w *dynamo.World, p mgl64.Vec2, radius float64) int {
	n := 0
	for _, c := range slices.Clone(w.Constraints()) {
		a, b := c.Bodies()
		if near(a, p, radius) || near(b, p, radius) {
			if w.Sever(c) {
				n++
			}
		}
	}
	return n
}

// TogglePins flips Pinned on every body within radius of p.
func TogglePins(w *dynamo.World, p mgl64.Vec2, radius float64) int {
	n := 0
	for _, b := range w.Bodies() {
		if near(b, p, radius) {
			b.Pinned = !b.Pinned
			n++
		}
	}
	return n
}

// Nearest returns the body closest to p, or nil for an empty world.
func Nearest(w *dynamo.World, p mgl64.Vec2) *dynamo.Body {
	var best *dynamo.Body
	bestDist := 0.0
	for _, b := range w.Bodies() {
		d := b.Position().Sub(p).Len()
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}
