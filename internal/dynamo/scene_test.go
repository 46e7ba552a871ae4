package dynamo_test

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/models"
)

type slowClock struct {
	now  time.Time
	tick time.Duration
}

func (c *slowClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.tick)
	return t
}

func distances(w *dynamo.World) []*dynamo.DistanceConstraint {
	var out []*dynamo.DistanceConstraint
	for _, c := range w.Constraints() {
		if d, ok := c.(*dynamo.DistanceConstraint); ok {
			out = append(out, d)
		}
	}
	return out
}

func maxStretch(w *dynamo.World) float64 {
	worst := 0.0
	for _, d := range distances(w) {
		a, b := d.Bodies()
		got := b.Position().Sub(a.Position()).Len()
		worst = math.Max(worst, math.Abs(got-d.Rest)/d.Rest)
	}
	return worst
}

var _ = Describe("World", func() {
	var (
		w   *dynamo.World
		cfg dynamo.Config
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
		cfg.Seed = 42
	})

	Context("with the default cloth", func() {
		var anchors map[int]mgl64.Vec2

		BeforeEach(func() {
			var err error
			w, err = dynamo.New(models.NewCloth(31, 20, 0.125, 3), cfg)
			Expect(err).NotTo(HaveOccurred())

			anchors = map[int]mgl64.Vec2{}
			for _, b := range w.Bodies() {
				if b.Pinned {
					anchors[b.ID()] = b.Position()
				}
			}
		})

		It("pins every third body on the top row", func() {
			Expect(anchors).To(HaveLen(11))
		})

		It("never moves pinned bodies", func() {
			for i := 0; i < 300; i++ {
				w.Step(w.Timestep())
			}
			for id, pos := range anchors {
				Expect(w.Body(id).Position()).To(Equal(pos))
			}
		})

		It("stays bounded while hanging", func() {
			for i := 0; i < 300; i++ {
				w.Step(w.Timestep())
			}
			Expect(maxStretch(w)).To(BeNumerically("<", 1.0))
			for _, b := range w.Bodies() {
				Expect(math.IsNaN(b.Position().X())).To(BeFalse())
			}
		})

		It("removes a severed constraint and leaves bodies untouched", func() {
			victim := w.Constraints()[17]
			before := len(w.Constraints())

			Expect(w.Sever(victim)).To(BeTrue())
			Expect(w.Constraints()).To(HaveLen(before - 1))
			Expect(w.Constraints()).NotTo(ContainElement(victim))
			Expect(w.Bodies()).To(HaveLen(620))
		})

		It("keeps stepping after constraints are severed", func() {
			for len(w.Constraints()) > 100 {
				w.Sever(w.Constraints()[0])
			}
			Expect(func() {
				for i := 0; i < 100; i++ {
					w.Step(w.Timestep())
				}
			}).NotTo(Panic())
		})
	})

	Context("with a rope", func() {
		BeforeEach(func() {
			var err error
			w, err = dynamo.New(models.NewRope(8, 1), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("settles to its rest length under zero gravity", func() {
			w.Gravity = mgl64.Vec2{}
			end := w.Body(8)
			end.SetPosition(end.Position().Add(mgl64.Vec2{0.3, -0.2}))

			for i := 0; i < 2000; i++ {
				w.Step(w.Timestep())
			}
			Expect(maxStretch(w)).To(BeNumerically("<", 1e-2))
		})

		It("falls freely when the anchor is released", func() {
			w.Body(0).Pinned = false
			start := w.Body(0).Position().Y()
			for i := 0; i < 100; i++ {
				w.Step(w.Timestep())
			}
			Expect(w.Body(0).Position().Y()).To(BeNumerically("<", start))
		})
	})

	Context("when the host clock is slower than the timestep", func() {
		BeforeEach(func() {
			cfg.Clock = &slowClock{now: time.Unix(0, 0), tick: 50 * time.Millisecond}
			var err error
			w, err = dynamo.New(models.NewRope(2, 0.75), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("abandons catch-up after a single step", func() {
			Expect(w.Update(1.0)).To(Equal(1))
			Expect(w.SimulatedTime()).To(Equal(w.TargetTime()))
			Expect(w.Stalls()).To(Equal(1))
		})
	})

	Context("with crossed repel constraints", func() {
		It("pushes an over-compressed pair apart symmetrically", func() {
			a := dynamo.NewBody(mgl64.Vec2{0, 0}, false)
			b := dynamo.NewBody(mgl64.Vec2{1, 0}, false)
			provider := dynamo.ProviderFunc(func(bodies *[]*dynamo.Body, constraints *[]dynamo.Constraint) {
				*bodies = append(*bodies, a, b)
				*constraints = append(*constraints, dynamo.NewRepelConstraintWithDistance(a, b, 2))
			})

			cfg.Gravity = mgl64.Vec2{}
			w, err := dynamo.New(provider, cfg)
			Expect(err).NotTo(HaveOccurred())

			w.Step(w.Timestep())
			w.Step(w.Timestep())

			Expect(a.Position().X()).To(BeNumerically("<", 0))
			Expect(b.Position().X()).To(BeNumerically(">", 1))
			Expect(a.Position().X() + b.Position().X() - 1).To(BeNumerically("~", 0, 1e-12))
		})
	})
})
