package gui

import (
	"errors"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/experiment"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.DefaultConfig()
	cfg.Cloth.Width, cfg.Cloth.Height = 6, 5
	exp := experiment.New(cfg, nil, log)
	require.NoError(t, exp.Setup())

	a := NewApp(exp, log)
	a.Layout(400, 200)
	return a
}

// at returns input with the cursor over world point p.
func (a *App) at(p mgl64.Vec2) Input {
	x, y := a.camera.Project(p, a.width, a.height)
	return Input{CursorX: x, CursorY: y}
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t)
	err := a.apply(Input{Quit: true}, 0.01)
	assert.True(t, errors.Is(err, errQuit))
}

func TestAppStrongGrab(t *testing.T) {
	a := newTestApp(t)
	a.paused = true
	target := a.world.Body(1).Position()

	in := a.at(target)
	in.Left, in.LeftPressed = true, true
	require.NoError(t, a.apply(in, 0.01))
	require.True(t, a.grabber.Active())

	in = a.at(target.Add(mgl64.Vec2{0, -1}))
	in.Left = true
	require.NoError(t, a.apply(in, 0.01))
	assert.InDelta(t, target.Y()-1, a.world.Body(1).Position().Y(), 1e-6)

	in.Left, in.LeftReleased = false, true
	require.NoError(t, a.apply(in, 0.01))
	assert.False(t, a.grabber.Active())
}

func TestAppWeakGrabPushes(t *testing.T) {
	a := newTestApp(t)
	a.paused = true
	b := a.world.Body(1)
	start := b.Position()

	in := a.at(start)
	in.Left, in.LeftPressed, in.Weak = true, true, true
	require.NoError(t, a.apply(in, 0.01))
	assert.False(t, a.grabber.Active(), "weak grab should not hold bodies")

	in = a.at(start.Add(mgl64.Vec2{0.05, 0}))
	in.Left = true
	require.NoError(t, a.apply(in, 0.01))
	assert.Greater(t, b.Position().X(), start.X())
}

func TestAppCutAndPin(t *testing.T) {
	a := newTestApp(t)
	a.paused = true
	total := len(a.world.Constraints())
	origin := a.world.Body(0)
	require.True(t, origin.Pinned)

	in := a.at(origin.Position())
	in.MiddlePressed = true
	require.NoError(t, a.apply(in, 0.01))
	assert.False(t, origin.Pinned)

	in = a.at(origin.Position())
	in.Right = true
	require.NoError(t, a.apply(in, 0.01))
	assert.Less(t, len(a.world.Constraints()), total)
}

func TestAppWheel(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.apply(Input{Wheel: 2}, 0.01))
	assert.Equal(t, 2.0, a.camera.Zoom)

	require.NoError(t, a.apply(Input{Wheel: 1, ToolSize: true}, 0.01))
	assert.InDelta(t, 0.11, a.radius, 1e-12)

	require.NoError(t, a.apply(Input{Wheel: -200, ToolSize: true}, 0.01))
	assert.Equal(t, minRadius, a.radius)
}

func TestAppPan(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.apply(Input{Pan: mgl64.Vec2{1, 0}}, 0.1))
	assert.InDelta(t, 0.5, a.camera.Center.X(), 1e-12)
}

func TestAppKeys(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.apply(Input{Pause: true}, 0.01))
	steps := a.world.Steps()
	require.NoError(t, a.apply(Input{}, 0.1))
	assert.Equal(t, steps, a.world.Steps(), "paused app stepped")

	require.NoError(t, a.apply(Input{FlipGravity: true, Wind: true, Repel: true, Overlay: true}, 0.01))
	assert.Equal(t, mgl64.Vec2{0, 1}, a.world.Gravity)
	assert.True(t, a.wind.Enabled)
	assert.True(t, a.showRepel)
	assert.False(t, a.overlay)

	require.NoError(t, a.apply(Input{NoGravity: true}, 0.01))
	assert.Equal(t, mgl64.Vec2{}, a.world.Gravity)
	require.NoError(t, a.apply(Input{DefaultGravity: true}, 0.01))
	assert.Equal(t, mgl64.Vec2{0, -1}, a.world.Gravity)
}

func TestAppReset(t *testing.T) {
	a := newTestApp(t)
	total := len(a.world.Constraints())
	old := a.world

	in := a.at(mgl64.Vec2{})
	in.Right = true
	require.NoError(t, a.apply(in, 0.01))
	require.Less(t, len(a.world.Constraints()), total)

	require.NoError(t, a.apply(Input{Reset: true, FlipGravity: true}, 0.01))
	assert.NotSame(t, old, a.world)
	assert.Equal(t, total, len(a.world.Constraints()))
	assert.Equal(t, 1.0, a.world.Gravity.Y())
}

func TestAppRunsWorld(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.apply(Input{}, 0.1))
	assert.Greater(t, a.world.Steps(), 0)
}
