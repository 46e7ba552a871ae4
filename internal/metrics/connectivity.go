package metrics

import "github.com/san-kum/clothsim/internal/dynamo"

// Connectivity reports the number of live constraints.
type Connectivity struct {
	name  string
	count int
}

func NewConnectivity() *Connectivity {
	return &Connectivity{name: "constraints"}
}

func (c *Connectivity) Name() string            { return c.name }
func (c *Connectivity) Observe(w *dynamo.World) { c.count = len(w.Constraints()) }
func (c *Connectivity) Current() float64        { return float64(c.count) }
func (c *Connectivity) Value() float64          { return float64(c.count) }
func (c *Connectivity) Reset()                  { c.count = 0 }
