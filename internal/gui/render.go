package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
)

var (
	colBg     = color.RGBA{10, 10, 10, 255}
	colLink   = color.RGBA{232, 224, 208, 255}
	colRepel  = color.RGBA{70, 70, 70, 255}
	colAnchor = color.RGBA{255, 85, 85, 255}
	colCursor = color.RGBA{120, 200, 255, 160}
)

const overlayHelp = `LMB grab (shift: push)  RMB cut  MMB pin
wheel zoom (ctrl: tool size)  WASD pan
space pause  R reset  N/G/F gravity
O wind  E repel links  F1 overlay  Q quit`

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colBg)

	line := func(c dynamo.Constraint, width float32, clr color.Color) {
		b0, b1 := c.Bodies()
		x0, y0 := a.camera.Project(b0.Position(), a.width, a.height)
		x1, y1 := a.camera.Project(b1.Position(), a.width, a.height)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
	}

	if a.showRepel {
		for _, c := range a.world.Constraints() {
			if _, ok := c.(*dynamo.RepelConstraint); ok {
				line(c, 1, colRepel)
			}
		}
	}
	for _, c := range a.world.Constraints() {
		if _, ok := c.(*dynamo.RepelConstraint); !ok {
			line(c, 1.5, colLink)
		}
	}

	for _, b := range a.world.Bodies() {
		if b.Pinned {
			x, y := a.camera.Project(b.Position(), a.width, a.height)
			vector.DrawFilledCircle(screen, float32(x), float32(y), 4, colAnchor, true)
		}
	}

	cx, cy := a.camera.Project(a.cursor, a.width, a.height)
	r := a.radius * a.camera.Scale(a.height)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, colCursor, true)

	if a.overlay {
		ebitenutil.DebugPrintAt(screen, a.status(), 8, 8)
		ebitenutil.DebugPrintAt(screen, overlayHelp, 8, a.height-72)
	}
}

func (a *App) status() string {
	state := "running"
	if a.paused {
		state = "paused"
	}
	return fmt.Sprintf(
		"%s  %s  %.0f fps\ntime %.2fs  steps %d  stalls %d\nbodies %d  links %d  stretch %.1f%%\ngravity %+.2f  wind %+.2f  tool %.2f",
		a.exp.Config().Scene, state, ebiten.ActualFPS(),
		a.world.SimulatedTime(), a.world.Steps(), a.world.Stalls(),
		len(a.world.Bodies()), len(a.world.Constraints()), 100*metrics.Stretch(a.world),
		a.world.Gravity.Y(), a.wind.Direction*a.wind.Strength(), a.radius,
	)
}
