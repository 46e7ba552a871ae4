package models

import (
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func populate(p dynamo.Provider) ([]*dynamo.Body, []dynamo.Constraint) {
	var bodies []*dynamo.Body
	var constraints []dynamo.Constraint
	p.Populate(&bodies, &constraints)
	return bodies, constraints
}

func TestClothCounts(t *testing.T) {
	tests := []struct {
		w, h            int
		bodies          int
		distance, repel int
	}{
		{1, 1, 1, 0, 0},
		{2, 2, 4, 4, 2},
		{3, 2, 6, 7, 4},
		{31, 20, 620, 31*19 + 30*20, 2 * 30 * 19},
	}

	for _, tt := range tests {
		bodies, constraints := populate(NewCloth(tt.w, tt.h, 0.125, 3))
		if len(bodies) != tt.bodies {
			t.Errorf("%dx%d: bodies = %d, want %d", tt.w, tt.h, len(bodies), tt.bodies)
		}

		var dist, rep int
		for _, c := range constraints {
			switch c.(type) {
			case *dynamo.DistanceConstraint:
				dist++
			case *dynamo.RepelConstraint:
				rep++
			}
		}
		if dist != tt.distance || rep != tt.repel {
			t.Errorf("%dx%d: distance=%d repel=%d, want %d and %d", tt.w, tt.h, dist, rep, tt.distance, tt.repel)
		}
	}
}

func TestClothAnchors(t *testing.T) {
	bodies, _ := populate(NewCloth(7, 3, 0.5, 3))

	for i, b := range bodies {
		x, y := i%7, i/7
		want := y == 0 && x%3 == 0
		if b.Pinned != want {
			t.Errorf("body (%d,%d) pinned=%v, want %v", x, y, b.Pinned, want)
		}
	}

	bodies, _ = populate(NewCloth(4, 2, 0.5, 0))
	for _, b := range bodies {
		if b.Pinned {
			t.Fatal("anchor frequency 0 should pin nothing")
		}
	}
}

func TestClothRestLengths(t *testing.T) {
	_, constraints := populate(NewCloth(3, 3, 0.25, 1))

	for _, c := range constraints {
		switch c := c.(type) {
		case *dynamo.DistanceConstraint:
			if math.Abs(c.Rest-0.25) > 1e-12 {
				t.Errorf("distance rest = %g, want 0.25", c.Rest)
			}
		case *dynamo.RepelConstraint:
			if math.Abs(c.Rest-0.25*math.Sqrt2) > 1e-12 {
				t.Errorf("repel rest = %g, want diagonal", c.Rest)
			}
		}
	}
}

func TestClothLayout(t *testing.T) {
	bodies, _ := populate(NewCloth(2, 2, 0.5, 1))
	want := [][2]float64{{0, 0}, {0.5, 0}, {0, -0.5}, {0.5, -0.5}}
	for i, b := range bodies {
		if b.Position()[0] != want[i][0] || b.Position()[1] != want[i][1] {
			t.Errorf("body %d at %v, want %v", i, b.Position(), want[i])
		}
	}
}

func TestClothValidate(t *testing.T) {
	bad := []*Cloth{
		NewCloth(0, 5, 0.1, 1),
		NewCloth(5, 0, 0.1, 1),
		NewCloth(5, 5, 0, 1),
		NewCloth(5, 5, 0.1, -1),
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", *c)
		}
	}
	if err := NewCloth(31, 20, 0.125, 3).Validate(); err != nil {
		t.Errorf("default cloth invalid: %v", err)
	}
}
