package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var setters = map[string]func(c *Config, v float64){
	"timestep":               func(c *Config, v float64) { c.Timestep = v },
	"timescale":              func(c *Config, v float64) { c.Timescale = v },
	"duration":               func(c *Config, v float64) { c.Duration = v },
	"seed":                   func(c *Config, v float64) { c.Seed = int64(v) },
	"gravity":                func(c *Config, v float64) { c.Gravity[1] = v },
	"gravity_x":              func(c *Config, v float64) { c.Gravity[0] = v },
	"damping":                func(c *Config, v float64) { c.Params.Damping = v },
	"stretchiness":           func(c *Config, v float64) { c.Params.Stretchiness = v },
	"repel_strength":         func(c *Config, v float64) { c.Params.RepelStrength = v },
	"cloth.width":            func(c *Config, v float64) { c.Cloth.Width = int(v) },
	"cloth.height":           func(c *Config, v float64) { c.Cloth.Height = int(v) },
	"cloth.grid_size":        func(c *Config, v float64) { c.Cloth.GridSize = v },
	"cloth.anchor_frequency": func(c *Config, v float64) { c.Cloth.AnchorFrequency = int(v) },
	"rope.segments":          func(c *Config, v float64) { c.Rope.Segments = int(v) },
	"rope.length":            func(c *Config, v float64) { c.Rope.Length = v },
	"wind.min":               func(c *Config, v float64) { c.Wind.Min = v },
	"wind.max":               func(c *Config, v float64) { c.Wind.Max = v },
	"wind.frequency":         func(c *Config, v float64) { c.Wind.Frequency = v },
}

// Keys lists the names accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set assigns a numeric setting by name. Integer settings truncate v.
// The result is not validated.
func (c *Config) Set(key string, v float64) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	set(c, v)
	return nil
}

// ParseAssignment reads "key=v1,v2,...".
func ParseAssignment(s string) (string, []float64, error) {
	key, list, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("expected key=value, got %q", s)
	}
	if _, known := setters[key]; !known {
		return "", nil, fmt.Errorf("unknown setting %q", key)
	}

	var values []float64
	for _, part := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", key, err)
		}
		values = append(values, v)
	}
	return key, values, nil
}
