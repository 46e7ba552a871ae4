package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera maps world space (y up) onto a pixel grid (y down). At zoom 0 the
// viewport is five world units tall.
type Camera struct {
	Center mgl64.Vec2
	Zoom   float64
}

// Scale is pixels per world unit for a viewport h pixels tall.
func (c *Camera) Scale(h int) float64 {
	return float64(h) / 5 * math.Pow(1.1, c.Zoom)
}

func (c *Camera) Project(p mgl64.Vec2, w, h int) (x, y float64) {
	s := c.Scale(h)
	d := p.Sub(c.Center)
	return float64(w)/2 + d.X()*s, float64(h)/2 - d.Y()*s
}

func (c *Camera) Unproject(x, y float64, w, h int) mgl64.Vec2 {
	s := c.Scale(h)
	return mgl64.Vec2{
		(x-float64(w)/2)/s + c.Center.X(),
		(float64(h)/2-y)/s + c.Center.Y(),
	}
}

func (c *Camera) Pan(d mgl64.Vec2) { c.Center = c.Center.Add(d) }

func (c *Camera) Reset() { *c = Camera{} }
