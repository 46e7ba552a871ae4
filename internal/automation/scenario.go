// Package automation runs scripted scenarios: a list of scenes, each
// simulated for a while with tool actions fired at set times.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/sim"
)

const defaultRadius = 0.1

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scene run. Preset and Set are applied over the defaults in
// that order; Duration overrides both when positive.
type Step struct {
	Name      string             `yaml:"name"`
	Scene     string             `yaml:"scene"`
	Preset    string             `yaml:"preset"`
	Set       map[string]float64 `yaml:"set"`
	Duration  float64            `yaml:"duration"`
	FrameRate float64            `yaml:"frame_rate"`
	Actions   []Action           `yaml:"actions"`
}

// Action is a tool use at simulated time At. X and Y locate the tool;
// DX and DY are the drag distance; Value is the new gravity, or wind on
// when non-zero.
type Action struct {
	At     float64 `yaml:"at"`
	Do     string  `yaml:"do"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	DX     float64 `yaml:"dx"`
	DY     float64 `yaml:"dy"`
	Radius float64 `yaml:"radius"`
	Value  float64 `yaml:"value"`
}

var actions = map[string]func(a Action, w *dynamo.World, wind *control.Wind) int{
	"cut": func(a Action, w *dynamo.World, _ *control.Wind) int {
		return control.Cut(w, a.pos(), a.radius())
	},
	"pin": func(a Action, w *dynamo.World, _ *control.Wind) int {
		return control.TogglePins(w, a.pos(), a.radius())
	},
	"drag": func(a Action, w *dynamo.World, _ *control.Wind) int {
		return control.Drag(w, a.pos(), a.pos().Add(mgl64.Vec2{a.DX, a.DY}), a.radius())
	},
	"gravity": func(a Action, w *dynamo.World, _ *control.Wind) int {
		w.Gravity[1] = a.Value
		return 0
	},
	"wind": func(a Action, _ *dynamo.World, wind *control.Wind) int {
		wind.Enabled = a.Value != 0
		return 0
	},
}

func (a Action) pos() mgl64.Vec2 { return mgl64.Vec2{a.X, a.Y} }

func (a Action) radius() float64 {
	if a.Radius <= 0 {
		return defaultRadius
	}
	return a.Radius
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		if step.Scene == "" {
			return fmt.Errorf("step %d: scene is required", i+1)
		}
		for _, a := range step.Actions {
			if _, ok := actions[a.Do]; !ok {
				return fmt.Errorf("step %d: unknown action %q", i+1, a.Do)
			}
			if a.At < 0 {
				return fmt.Errorf("step %d: action %s at negative time", i+1, a.Do)
			}
		}
	}
	return nil
}

// Config resolves the scene configuration of a step.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Scene, s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %s for scene %s", s.Preset, s.Scene)
		}
	}
	cfg.Scene = s.Scene
	for k, v := range s.Set {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	return cfg, cfg.Validate()
}

// player fires a step's actions in time order as frames pass.
type player struct {
	actions []Action
	wind    *control.Wind
	next    int
	touched int
}

func newPlayer(list []Action, wind *control.Wind) *player {
	sorted := append([]Action(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &player{actions: sorted, wind: wind}
}

func (p *player) OnFrame(w *dynamo.World, t float64) {
	for p.next < len(p.actions) && p.actions[p.next].At <= t+1e-9 {
		a := p.actions[p.next]
		p.touched += actions[a.Do](a, w, p.wind)
		p.next++
	}
}

type StepResult struct {
	Name   string
	Config *config.Config
	World  *dynamo.World
	Result *sim.Result
	// Fired counts actions that ran; Touched counts bodies or constraints
	// they affected.
	Fired, Touched int
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log logrus.FieldLogger) ([]StepResult, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", step.Scene, i+1)
		}
		log.WithFields(logrus.Fields{"step": i + 1, "of": len(scenario.Steps), "name": name}).Info("running scenario step")

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		p := newPlayer(step.Actions, exp.Wind())
		exp.GetSimulator().AddObserver(p)

		frameRate := step.FrameRate
		if frameRate <= 0 {
			frameRate = 60
		}
		result, err := exp.Run(ctx, sim.Config{FrameRate: frameRate, Duration: cfg.Duration, RecordEvery: 1})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Name:    name,
			Config:  cfg,
			World:   exp.World(),
			Result:  result,
			Fired:   p.next,
			Touched: p.touched,
		})
	}

	return results, nil
}
