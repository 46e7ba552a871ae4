package config

import "sort"

// Presets are named starting points per scene. They are complete configs;
// callers copy them before changing fields.
var Presets = map[string]map[string]*Config{
	"cloth": {
		"curtain": preset("cloth", func(c *Config) {}),
		"silk": preset("cloth", func(c *Config) {
			c.Params.Damping = 0.05
			c.Params.Stretchiness = 0.5
			c.Params.RepelStrength = 0.5
		}),
		"canvas": preset("cloth", func(c *Config) {
			c.Params.Damping = 0.4
			c.Params.RepelStrength = 4
			c.Cloth.GridSize = 0.1
		}),
		"banner": preset("cloth", func(c *Config) {
			c.Cloth.Width, c.Cloth.Height = 40, 12
			c.Cloth.AnchorFrequency = 1
			c.Wind.Enabled = true
			c.Wind.Min, c.Wind.Max = 0.5, 2
			c.Wind.Direction = 1
		}),
		"sheet": preset("cloth", func(c *Config) {
			c.Cloth.AnchorFrequency = 0
			c.Gravity = [2]float64{0, 0}
		}),
	},
	"rope": {
		"short": preset("rope", func(c *Config) {}),
		"long": preset("rope", func(c *Config) {
			c.Rope.Segments = 30
			c.Rope.Length = 3
		}),
		"elastic": preset("rope", func(c *Config) {
			c.Rope.Segments = 12
			c.Rope.Length = 2
			c.Params.Stretchiness = 0.8
			c.Params.Damping = 0.05
		}),
	},
}

func preset(scene string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	mutate(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
