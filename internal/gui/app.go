// Package gui is the desktop viewer. The mouse drives the tools directly:
// left button grabs, right button cuts, middle button toggles pins.
package gui

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/viz"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720

	panSpeed      = 5.0
	maxFrameDelta = 0.25
	minRadius     = 0.01
	maxRadius     = 10
)

var errQuit = errors.New("quit")

// App is an ebiten.Game over a set up experiment.
type App struct {
	exp    *experiment.Experiment
	world  *dynamo.World
	wind   *control.Wind
	log    logrus.FieldLogger
	camera viz.Camera

	width, height int
	radius        float64
	grabber       control.Grabber
	weak          bool
	lastCursor    mgl64.Vec2
	cursor        mgl64.Vec2

	paused    bool
	overlay   bool
	showRepel bool
	lastTick  time.Time
}

func NewApp(exp *experiment.Experiment, log logrus.FieldLogger) *App {
	a := &App{
		exp:     exp,
		log:     log,
		width:   ScreenWidth,
		height:  ScreenHeight,
		radius:  0.1,
		overlay: true,
	}
	a.attach()
	return a
}

func (a *App) attach() {
	a.world = a.exp.World()
	a.wind = a.exp.Wind()
}

func (a *App) Update() error {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !a.lastTick.IsZero() {
		dt = math.Min(now.Sub(a.lastTick).Seconds(), maxFrameDelta)
	}
	a.lastTick = now

	if err := a.apply(readInput(), dt); err != nil {
		if errors.Is(err, errQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// worldCursor maps a screen position into world space.
func (a *App) worldCursor(x, y float64) mgl64.Vec2 {
	return a.camera.Unproject(x, y, a.width, a.height)
}

// apply runs one frame of input handling followed by the world update.
func (a *App) apply(in Input, dt float64) error {
	if in.Quit {
		return errQuit
	}
	if in.Reset {
		a.reset()
	}
	if in.Overlay {
		a.overlay = !a.overlay
	}
	if in.Pause {
		a.paused = !a.paused
	}
	switch {
	case in.NoGravity:
		a.world.Gravity = mgl64.Vec2{}
	case in.DefaultGravity:
		a.world.Gravity = a.exp.Config().GravityVec()
	case in.FlipGravity:
		a.world.Gravity = a.world.Gravity.Mul(-1)
	}
	if in.Wind {
		a.wind.Enabled = !a.wind.Enabled
	}
	if in.Repel {
		a.showRepel = !a.showRepel
	}

	if in.Wheel != 0 {
		if in.ToolSize {
			a.radius = math.Min(math.Max(a.radius*math.Pow(1.1, in.Wheel), minRadius), maxRadius)
		} else {
			a.camera.Zoom += in.Wheel
		}
	}
	if in.Pan != (mgl64.Vec2{}) {
		a.camera.Pan(in.Pan.Mul(panSpeed * dt / math.Pow(1.1, a.camera.Zoom)))
	}

	a.cursor = a.worldCursor(in.CursorX, in.CursorY)
	a.useTools(in)
	a.lastCursor = a.cursor

	if a.paused {
		return nil
	}
	a.world.Update(dt)
	return nil
}

func (a *App) useTools(in Input) {
	if in.LeftPressed {
		a.weak = in.Weak
		a.lastCursor = a.cursor
		if !a.weak {
			n := a.grabber.Begin(a.world, a.cursor, a.radius)
			a.log.WithField("bodies", n).Debug("grab")
		}
	}
	if in.Left {
		if a.weak {
			control.Drag(a.world, a.lastCursor, a.cursor, a.radius)
		} else {
			a.grabber.Move(a.world, a.cursor)
		}
	}
	if in.LeftReleased {
		a.grabber.End()
	}

	if in.Right {
		control.Cut(a.world, a.cursor, a.radius)
	}
	if in.MiddlePressed {
		control.TogglePins(a.world, a.cursor, a.radius)
	}
}

func (a *App) reset() {
	if err := a.exp.Reset(); err != nil {
		a.log.WithError(err).Error("reset failed")
		return
	}
	a.grabber.End()
	a.attach()
}

// Run opens a window on an experiment that has been set up.
func Run(exp *experiment.Experiment, log logrus.FieldLogger) error {
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("clothsim - " + exp.Config().Scene)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.WithField("scene", exp.Config().Scene).Info("opening window")
	return ebiten.RunGame(NewApp(exp, log))
}
