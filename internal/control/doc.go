// Package control implements the interactive tools that act on a running
// [dynamo.World]:
//
//   - [Grabber]: strong grab, bodies follow the cursor rigidly
//   - [Drag]: weak grab, bodies are nudged by the cursor motion
//   - [Cut]: severs constraints near a point
//   - [TogglePins]: pins or releases bodies near a point
//   - [Wind]: an oscillating horizontal force applied every step
//
// All tools take world-space coordinates. Hosts convert screen positions
// through their camera first.
//
// # Usage
//
//	var g control.Grabber
//	g.Begin(w, cursor, 0.1)
//	// every frame while the button is held
//	g.Move(w, cursor)
//	g.End()
package control
