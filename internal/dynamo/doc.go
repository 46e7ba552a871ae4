// Package dynamo provides the physics core for deformable constraint networks.
//
// The package implements position-based dynamics over point masses:
//
//   - [Body]: point mass integrated with Störmer–Verlet and time-normalized damping
//   - [Constraint]: two-body relation relaxed once per step
//   - [DistanceConstraint]: soft equality |B−A| ≈ Rest with nonlinear softening
//   - [RepelConstraint]: capped inverse-distance repulsion queued as force
//   - [World]: owns bodies and constraints and steps them at a fixed rate
//
// # Example
//
//	w, err := dynamo.New(models.NewCloth(31, 20, 0.125, 3), dynamo.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for frame := range frames {
//	    w.Update(frame.Delta)
//	}
//
// # Stepping
//
// [World.Update] accumulates frame time and runs zero or more fixed-size
// [World.Step] calls. If a single step costs more wall-clock time than the
// timestep, the accumulator is snapped forward and the remaining catch-up for
// that frame is abandoned.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Hosts that move bodies,
// toggle pins or sever constraints must do so from the goroutine that calls
// [World.Update].
package dynamo
