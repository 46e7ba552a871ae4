package dynamo

// Constraint relates two bodies and is relaxed once per step.
type Constraint interface {
	Bodies() (a, b *Body)
	Update(dt float64, w *World)
}

// Link holds the two bodies of a constraint. It does not own them.
type Link struct {
	A, B *Body
}

func (l Link) Bodies() (*Body, *Body) { return l.A, l.B }

// PinWeights splits a correction between a and b so that a pinned body
// never moves and an unpinned pair shares it equally. A pair pinned at both
// ends gets no correction.
func PinWeights(a, b *Body) (wa, wb float64) {
	if a.Pinned && b.Pinned {
		return 0, 0
	}
	if a.Pinned {
		return 0, 1
	}
	if b.Pinned {
		return 1, 0
	}
	return 0.5, 0.5
}
