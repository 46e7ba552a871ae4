package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/dynamo"
)

const (
	DefaultTimestep  = 0.01
	DefaultTimescale = 1.0
	DefaultDuration  = 10.0
	DefaultGravity   = -1.0

	DefaultClothWidth      = 31
	DefaultClothHeight     = 20
	DefaultGridSize        = 0.125
	DefaultAnchorFrequency = 3

	DefaultRopeSegments = 2
	DefaultRopeLength   = 0.75

	DefaultWindMax       = 1.0
	DefaultWindFrequency = 1.0
)

// Environment keys read by LoadEnv.
const (
	EnvDataDir   = "CLOTHSIM_DATA_DIR"
	EnvLogLevel  = "CLOTHSIM_LOG_LEVEL"
	EnvSentryDSN = "CLOTHSIM_SENTRY_DSN"
)

type Config struct {
	Scene     string        `yaml:"scene"`
	Timestep  float64       `yaml:"timestep"`
	Timescale float64       `yaml:"timescale"`
	Duration  float64       `yaml:"duration"`
	Gravity   [2]float64    `yaml:"gravity,flow"`
	Seed      int64         `yaml:"seed"`
	Params    dynamo.Params `yaml:"params"`
	Cloth     ClothConfig   `yaml:"cloth"`
	Rope      RopeConfig    `yaml:"rope"`
	Wind      WindConfig    `yaml:"wind"`
}

type ClothConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	GridSize        float64 `yaml:"grid_size"`
	AnchorFrequency int     `yaml:"anchor_frequency"`
}

type RopeConfig struct {
	Segments int     `yaml:"segments"`
	Length   float64 `yaml:"length"`
}

type WindConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Frequency float64 `yaml:"frequency"`
	// Direction is -1 for left and +1 for right.
	Direction int `yaml:"direction"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:     "cloth",
		Timestep:  DefaultTimestep,
		Timescale: DefaultTimescale,
		Duration:  DefaultDuration,
		Gravity:   [2]float64{0, DefaultGravity},
		Params:    dynamo.DefaultParams(),
		Cloth: ClothConfig{
			Width:           DefaultClothWidth,
			Height:          DefaultClothHeight,
			GridSize:        DefaultGridSize,
			AnchorFrequency: DefaultAnchorFrequency,
		},
		Rope: RopeConfig{
			Segments: DefaultRopeSegments,
			Length:   DefaultRopeLength,
		},
		Wind: WindConfig{
			Max:       DefaultWindMax,
			Frequency: DefaultWindFrequency,
			Direction: -1,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Scene == "" {
		return errors.New("scene is required")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %g", c.Duration)
	}
	if err := c.Wind.Validate(); err != nil {
		return err
	}
	return c.WorldConfig().Validate()
}

func (w WindConfig) Validate() error {
	if w.Min < 0 || w.Max > 10 || w.Min > w.Max {
		return fmt.Errorf("wind range [%g, %g] must lie within [0, 10]", w.Min, w.Max)
	}
	if w.Frequency < 0.01 || w.Frequency > 10 {
		return fmt.Errorf("wind frequency %g not in [0.01, 10]", w.Frequency)
	}
	if w.Direction != -1 && w.Direction != 1 {
		return fmt.Errorf("wind direction must be -1 or 1, got %d", w.Direction)
	}
	return nil
}

func (c *Config) GravityVec() mgl64.Vec2 { return mgl64.Vec2(c.Gravity) }

// WorldConfig maps the file settings onto a world configuration using the
// system clock.
func (c *Config) WorldConfig() dynamo.Config {
	return dynamo.Config{
		Timestep:  c.Timestep,
		Timescale: c.Timescale,
		Gravity:   c.GravityVec(),
		Seed:      c.Seed,
		Params:    c.Params,
	}
}

// Env holds process settings that do not belong in a scene file.
type Env struct {
	DataDir   string
	LogLevel  string
	SentryDSN string
}

// LoadEnv reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		DataDir:   getEnv(EnvDataDir, ".clothsim"),
		LogLevel:  getEnv(EnvLogLevel, "info"),
		SentryDSN: getEnv(EnvSentryDSN, ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
