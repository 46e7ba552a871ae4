package models

import (
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestRopeLayout(t *testing.T) {
	bodies, constraints := populate(NewRope(4, 2))

	if len(bodies) != 5 {
		t.Fatalf("bodies = %d, want 5", len(bodies))
	}
	if len(constraints) != 4 {
		t.Fatalf("constraints = %d, want 4", len(constraints))
	}
	if !bodies[0].Pinned {
		t.Error("first body should be pinned")
	}
	for i, b := range bodies[1:] {
		if b.Pinned {
			t.Errorf("body %d should be free", i+1)
		}
	}
	if y := bodies[4].Position().Y(); math.Abs(y+2) > 1e-12 {
		t.Errorf("rope end at y=%g, want -2", y)
	}
	for _, c := range constraints {
		d, ok := c.(*dynamo.DistanceConstraint)
		if !ok {
			t.Fatalf("unexpected constraint %T", c)
		}
		if math.Abs(d.Rest-0.5) > 1e-12 {
			t.Errorf("segment rest = %g, want 0.5", d.Rest)
		}
	}
}

func TestRopeHangsInWorld(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	w, err := dynamo.New(NewRope(10, 1), cfg)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}

	for i := 0; i < 500; i++ {
		w.Step(w.Timestep())
	}

	for _, b := range w.Bodies() {
		if b.Pinned && b.Position() != b.LastPosition() {
			t.Errorf("anchor moved")
		}
		if y := b.Position().Y(); y > 1e-9 || y < -1.5 {
			t.Errorf("rope body %d out of range at y=%g", b.ID(), y)
		}
	}
}

func TestRopeValidate(t *testing.T) {
	if err := NewRope(0, 1).Validate(); err == nil {
		t.Error("expected error for zero segments")
	}
	if err := NewRope(3, 0).Validate(); err == nil {
		t.Error("expected error for zero length")
	}
	if err := NewRope(2, 0.75).Validate(); err != nil {
		t.Errorf("default rope invalid: %v", err)
	}
}
