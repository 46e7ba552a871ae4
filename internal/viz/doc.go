// Package viz provides the terminal view of a running cloth or rope scene.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one experiment, stepped from wall-clock ticks
//   - [Canvas]: Braille-based pixel canvas the constraint network is drawn on
//   - [Camera]: world to pixel projection with pan and zoom
//   - a scene picker that builds an experiment from presets
//
// # Key Bindings
//
//	Space    - Pause/Resume simulation
//	R        - Rebuild the scene, keeping gravity and solver settings
//	1-4      - Select grab, drag, cut or pin tool
//	Enter    - Use the tool at the cursor
//	Arrows   - Move the cursor
//	WASD [ ] - Pan and zoom the camera
//	N G F    - No, default or flipped gravity
//	O        - Toggle wind
//	P        - Save an SVG snapshot
//	?        - Show help overlay
package viz
