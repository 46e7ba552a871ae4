package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if !c.Lit(3, 3) || c.Lit(1, 1) {
		t.Error("Lit disagrees with Set")
	}

	c.Unset(3, 3)
	if c.Grid[0][1] != brailleBlank {
		t.Errorf("unset left %U", c.Grid[0][1])
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		if !c.Lit(x, 0) {
			t.Fatalf("pixel (%d,0) not lit", x)
		}
	}
	if c.Lit(0, 1) {
		t.Error("line leaked to next row")
	}
}

func TestCanvasDrawLineClipped(t *testing.T) {
	c := NewCanvas(10, 5)

	// entirely off-canvas lines draw nothing and return quickly
	c.DrawLine(-1e9, -1e9, -1e9+1, 1e9)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != brailleBlank && r != '\n' }) {
		t.Error("off-canvas line drew pixels")
	}

	c.DrawLine(-100, 10, 100, 10)
	if !c.Lit(0, 10) || !c.Lit(19, 10) {
		t.Error("clipped line should span the canvas")
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Set(1, 1)
	c.Resize(8, 2)

	if c.Width != 8 || c.Height != 2 || len(c.Grid) != 2 || len(c.Grid[0]) != 8 {
		t.Fatalf("resize gave %dx%d", c.Width, c.Height)
	}
	if c.Lit(1, 1) {
		t.Error("resize should clear")
	}
	if lines := strings.Split(c.String(), "\n"); len(lines) != 2 {
		t.Errorf("String() has %d lines, want 2", len(lines))
	}
}

func TestCameraRoundTrip(t *testing.T) {
	cams := []Camera{
		{},
		{Center: mgl64.Vec2{1, -2}, Zoom: 3},
		{Center: mgl64.Vec2{-0.5, 0.5}, Zoom: -4},
	}
	p := mgl64.Vec2{0.3, -1.7}

	for _, cam := range cams {
		x, y := cam.Project(p, 160, 96)
		got := cam.Unproject(x, y, 160, 96)
		if got.Sub(p).Len() > 1e-12 {
			t.Errorf("camera %+v: round trip %v -> %v", cam, p, got)
		}
	}
}

func TestCameraOrientation(t *testing.T) {
	var cam Camera

	x, y := cam.Project(mgl64.Vec2{}, 100, 50)
	if x != 50 || y != 25 {
		t.Errorf("origin at (%g,%g), want center", x, y)
	}

	// y up in world is y down on screen; 5 world units fill the height
	_, y = cam.Project(mgl64.Vec2{0, 1}, 100, 50)
	if y != 15 {
		t.Errorf("y = %g, want 15", y)
	}

	cam.Zoom = 1
	if math.Abs(cam.Scale(50)-11) > 1e-12 {
		t.Errorf("scale at zoom 1 = %g, want 11", cam.Scale(50))
	}
}
