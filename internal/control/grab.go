package control

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Grabber holds bodies at a fixed offset from the cursor.
type Grabber struct {
	offsets *intmap.Map[int, mgl64.Vec2]
	ids     []int
}

func (g *Grabber) Active() bool { return len(g.ids) > 0 }

// Grabbed returns the ids of the held bodies in ascending order.
func (g *Grabber) Grabbed() []int { return slices.Clone(g.ids) }

// Begin grabs every body within radius of p. Pinned bodies are remembered
// but never moved. It returns the number of bodies grabbed.
func (g *Grabber) Begin(w *dynamo.World, p mgl64.Vec2, radius float64) int {
	g.End()
	g.offsets = intmap.New[int, mgl64.Vec2](64)

	for id := 0; ; id++ {
		b := w.Body(id)
		if b == nil {
			break
		}
		offset := b.Position().Sub(p)
		if offset.Len() < radius {
			g.offsets.Put(id, offset)
			g.ids = append(g.ids, id)
		}
	}
	return len(g.ids)
}

// Move places each grabbed, unpinned body at p plus its offset. Velocity
// is left implicit, so releasing after a fast move flings the bodies.
func (g *Grabber) Move(w *dynamo.World, p mgl64.Vec2) {
	for _, id := range g.ids {
		b := w.Body(id)
		if b == nil || b.Pinned {
			continue
		}
		offset, _ := g.offsets.Get(id)
		b.SetPosition(p.Add(offset))
	}
}

func (g *Grabber) End() {
	g.offsets = nil
	g.ids = nil
}
