package dynamo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Domain errors for world construction and stepping.
var (
	// ErrNonFinite indicates a body position containing NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite body position")

	// ErrCoincident indicates a repel axis computed from coincident bodies.
	ErrCoincident = errors.New("dynamo: repel axis from coincident bodies")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrForeignBody indicates a constraint referencing a body the world does not own.
	ErrForeignBody = errors.New("dynamo: constraint references a body outside the world")

	// ErrDuplicateBody indicates the same body was populated twice.
	ErrDuplicateBody = errors.New("dynamo: body populated more than once")

	// ErrNilProvider indicates a world was constructed without a scene provider.
	ErrNilProvider = errors.New("dynamo: nil scene provider")
)

// InvariantError is the panic value for broken engine invariants. These are
// programming errors; recovering from one leaves the world in an undefined state.
type InvariantError struct {
	Op    string
	Body  int
	Value mgl64.Vec2
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: body %d at (%g, %g): %v", e.Op, e.Body, e.Value[0], e.Value[1], e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariant(ok bool, op string, b *Body, v mgl64.Vec2, err error) {
	if ok {
		return
	}
	id := -1
	if b != nil {
		id = b.id
	}
	panic(&InvariantError{Op: op, Body: id, Value: v, Err: err})
}

func finite(v mgl64.Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsNaN(v[1]) && !math.IsInf(v[0], 0) && !math.IsInf(v[1], 0)
}
