package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/viz"
)

const (
	background  = "#0a0a0a"
	linkColor   = "#e8e0d0"
	repelColor  = "#555555"
	anchorColor = "#ff5555"
)

// Options controls how a world is drawn.
type Options struct {
	Width, Height int
	ShowRepel     bool
	// Padding is the margin around the bounding box, as a fraction of its size.
	Padding float64
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Padding: 0.1}
}

// frame fits the bounding box of all bodies into the image, keeping the
// aspect ratio and flipping y.
type frame struct {
	min    mgl64.Vec2
	scale  float64
	offset mgl64.Vec2
	height float64
}

func fit(bodies []*dynamo.Body, o Options) frame {
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, b := range bodies {
		p := b.Position()
		lo = mgl64.Vec2{math.Min(lo.X(), p.X()), math.Min(lo.Y(), p.Y())}
		hi = mgl64.Vec2{math.Max(hi.X(), p.X()), math.Max(hi.Y(), p.Y())}
	}
	if len(bodies) == 0 {
		lo, hi = mgl64.Vec2{}, mgl64.Vec2{1, 1}
	}

	size := hi.Sub(lo)
	if size.X() == 0 {
		size[0] = 1
	}
	if size.Y() == 0 {
		size[1] = 1
	}
	lo = lo.Sub(size.Mul(o.Padding))
	size = size.Mul(1 + 2*o.Padding)

	w, h := float64(o.Width), float64(o.Height)
	s := math.Min(w/size.X(), h/size.Y())
	return frame{
		min:    lo,
		scale:  s,
		offset: mgl64.Vec2{(w - size.X()*s) / 2, (h - size.Y()*s) / 2},
		height: h,
	}
}

func (f frame) point(p mgl64.Vec2) (x, y float64) {
	d := p.Sub(f.min).Mul(f.scale)
	return f.offset.X() + d.X(), f.height - f.offset.Y() - d.Y()
}

// WorldToSVG draws every constraint of w as a line. Repel constraints are
// drawn underneath in grey when opts.ShowRepel is set, and pinned bodies get
// a marker.
func WorldToSVG(w *dynamo.World, opts Options) string {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultOptions().Width, DefaultOptions().Height
	}
	f := fit(w.Bodies(), opts)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, background)

	line := func(c dynamo.Constraint) {
		a, b := c.Bodies()
		x0, y0 := f.point(a.Position())
		x1, y1 := f.point(b.Position())
		fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>
`, x0, y0, x1, y1)
	}

	if opts.ShowRepel {
		fmt.Fprintf(&sb, "<g stroke=%q stroke-width=\"0.5\">\n", repelColor)
		for _, c := range w.Constraints() {
			if _, ok := c.(*dynamo.RepelConstraint); ok {
				line(c)
			}
		}
		sb.WriteString("</g>\n")
	}

	fmt.Fprintf(&sb, "<g stroke=%q stroke-width=\"1.5\" stroke-linecap=\"round\">\n", linkColor)
	for _, c := range w.Constraints() {
		if _, ok := c.(*dynamo.RepelConstraint); !ok {
			line(c)
		}
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, "<g fill=%q>\n", anchorColor)
	for _, b := range w.Bodies() {
		if b.Pinned {
			x, y := f.point(b.Position())
			fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="4"/>
`, x, y)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.PixelWidth()) * scale
	height := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, linkColor)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a metric series against time as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
