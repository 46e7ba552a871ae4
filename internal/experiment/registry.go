package experiment

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/models"
	"github.com/san-kum/clothsim/internal/sim"
)

// SceneFactory turns the scene section of a config into a provider.
type SceneFactory func(cfg *config.Config) (dynamo.Provider, error)

type Registry struct {
	scenes *orderedmap.OrderedMap[string, SceneFactory]
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: orderedmap.NewOrderedMap[string, SceneFactory](),
	}

	r.Register("cloth", func(cfg *config.Config) (dynamo.Provider, error) {
		c := models.NewCloth(cfg.Cloth.Width, cfg.Cloth.Height, cfg.Cloth.GridSize, cfg.Cloth.AnchorFrequency)
		return c, c.Validate()
	})
	r.Register("rope", func(cfg *config.Config) (dynamo.Provider, error) {
		rope := models.NewRope(cfg.Rope.Segments, cfg.Rope.Length)
		return rope, rope.Validate()
	})

	return r
}

// Register adds or replaces a scene. A replaced scene keeps its place in the list.
func (r *Registry) Register(name string, f SceneFactory) {
	r.scenes.Set(name, f)
}

func (r *Registry) GetScene(name string, cfg *config.Config) (dynamo.Provider, error) {
	f, ok := r.scenes.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return f(cfg)
}

// ListScenes returns scene names in registration order.
func (r *Registry) ListScenes() []string {
	return r.scenes.Keys()
}

// Build validates cfg and assembles a world for its scene.
func (r *Registry) Build(cfg *config.Config) (*dynamo.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := r.GetScene(cfg.Scene, cfg)
	if err != nil {
		return nil, err
	}
	w, err := dynamo.New(p, cfg.WorldConfig())
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}
	return w, nil
}

// DefaultMetrics returns fresh metric instances for a scene. The stability
// bound scales with the scene extent.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	bound := 10.0
	switch cfg.Scene {
	case "cloth":
		extent := float64(max(cfg.Cloth.Width, cfg.Cloth.Height)) * cfg.Cloth.GridSize
		bound = 4 * extent
	case "rope":
		bound = 4 * cfg.Rope.Length
	}

	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMaxStretch(),
		metrics.NewStability(bound),
		metrics.NewConnectivity(),
	}
}
