package models

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/clothsim/internal/dynamo"
)

// Cloth is a rectangular grid hanging from anchors on its top row.
// Neighbours are held by distance constraints; each cell carries two crossed
// repel constraints that resist shearing and folding.
type Cloth struct {
	Width, Height   int
	GridSize        float64
	AnchorFrequency int // every n-th top-row body is pinned, 0 pins none
}

func NewCloth(width, height int, gridSize float64, anchorFrequency int) *Cloth {
	return &Cloth{
		Width:           width,
		Height:          height,
		GridSize:        gridSize,
		AnchorFrequency: anchorFrequency,
	}
}

func (c *Cloth) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("cloth size %dx%d must be at least 1x1", c.Width, c.Height)
	}
	if c.GridSize <= 0 {
		return fmt.Errorf("cloth grid size must be positive, got %g", c.GridSize)
	}
	if c.AnchorFrequency < 0 {
		return fmt.Errorf("anchor frequency must not be negative, got %d", c.AnchorFrequency)
	}
	return nil
}

func (c *Cloth) anchored(x, y int) bool {
	return y == 0 && c.AnchorFrequency != 0 && x%c.AnchorFrequency == 0
}

func (c *Cloth) Populate(bodies *[]*dynamo.Body, constraints *[]dynamo.Constraint) {
	grid := make([][]*dynamo.Body, c.Width)
	for x := range grid {
		grid[x] = make([]*dynamo.Body, c.Height)
	}

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			pos := mgl64.Vec2{float64(x), float64(-y)}.Mul(c.GridSize)
			b := dynamo.NewBody(pos, c.anchored(x, y))
			grid[x][y] = b
			*bodies = append(*bodies, b)
		}
	}

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			down := y+1 < c.Height
			right := x+1 < c.Width

			if down {
				*constraints = append(*constraints, dynamo.NewDistanceConstraint(grid[x][y], grid[x][y+1]))
			}
			if right {
				*constraints = append(*constraints, dynamo.NewDistanceConstraint(grid[x][y], grid[x+1][y]))
			}
			if down && right {
				*constraints = append(*constraints,
					dynamo.NewRepelConstraint(grid[x][y], grid[x+1][y+1]),
					dynamo.NewRepelConstraint(grid[x][y+1], grid[x+1][y]),
				)
			}
		}
	}
}
