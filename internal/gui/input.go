package gui

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is one frame of user input, decoupled from ebiten so the frame
// logic can run without a window.
type Input struct {
	CursorX, CursorY float64

	Left, LeftPressed, LeftReleased bool
	Right                           bool
	MiddlePressed                   bool
	// Weak makes a left drag push nearby bodies instead of holding them.
	Weak bool

	Wheel    float64
	ToolSize bool // wheel resizes the tool instead of zooming
	Pan      mgl64.Vec2

	Quit, Reset, Overlay, Pause            bool
	NoGravity, DefaultGravity, FlipGravity bool
	Wind, Repel                            bool
}

func readInput() Input {
	mx, my := ebiten.CursorPosition()
	_, wheel := ebiten.Wheel()

	var pan mgl64.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		pan[1]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		pan[1]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		pan[0]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		pan[0]++
	}

	key := inpututil.IsKeyJustPressed
	return Input{
		CursorX: float64(mx),
		CursorY: float64(my),

		Left:          ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		LeftPressed:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		LeftReleased:  inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Right:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		MiddlePressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle),
		Weak:          ebiten.IsKeyPressed(ebiten.KeyShift),

		Wheel:    wheel,
		ToolSize: ebiten.IsKeyPressed(ebiten.KeyControl),
		Pan:      pan,

		Quit:           key(ebiten.KeyQ) || key(ebiten.KeyEscape),
		Reset:          key(ebiten.KeyR),
		Overlay:        key(ebiten.KeyF1),
		Pause:          key(ebiten.KeySpace),
		NoGravity:      key(ebiten.KeyN),
		DefaultGravity: key(ebiten.KeyG),
		FlipGravity:    key(ebiten.KeyF),
		Wind:           key(ebiten.KeyO),
		Repel:          key(ebiten.KeyE),
	}
}
