// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config loads the settings of a simulation.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/physcene/linear"
	"github.com/gviegas/physcene/render"
	"github.com/gviegas/physcene/scene"
)

const prefix = "config: "

// Camera holds the frustum parameters of the camera.
// FOV is in degrees.
type Camera struct {
	FOV  float32 `yaml:"fov" toml:"fov"`
	Near float32 `yaml:"near" toml:"near"`
	Far  float32 `yaml:"far" toml:"far"`
}

// Light holds the parameters of the directional light.
type Light struct {
	Direction [3]float32 `yaml:"direction" toml:"direction"`
	Ambient   [3]float32 `yaml:"ambient" toml:"ambient"`
	Diffuse   [3]float32 `yaml:"diffuse" toml:"diffuse"`
	Specular  [3]float32 `yaml:"specular" toml:"specular"`
}

// Config is the configuration of a simulation.
type Config struct {
	// Size of the viewport. Only the ratio matters
	// when drawing on a terminal.
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`

	Camera  Camera     `yaml:"camera" toml:"camera"`
	Gravity [3]float32 `yaml:"gravity" toml:"gravity"`
	Light   Light      `yaml:"light" toml:"light"`

	// The longest step handed to the physics world,
	// in seconds.
	MaxDelta float32 `yaml:"max_delta" toml:"max_delta"`

	// Whether dangling bodies abort the simulation.
	Strict bool `yaml:"strict" toml:"strict"`

	// Number of frames to run. Zero means until the
	// user quits.
	Frames int `yaml:"frames" toml:"frames"`

	// Step of headless runs, in seconds.
	FixedDelta float32 `yaml:"fixed_delta" toml:"fixed_delta"`
}

// Default returns the default configuration.
func Default() Config {
	env := scene.DefaultEnvironment()
	scn := scene.DefaultConfig()
	return Config{
		Width:  800,
		Height: 600,
		Camera: Camera{
			FOV:  70,
			Near: 0.1,
			Far:  1000,
		},
		Gravity: env.Gravity,
		Light: Light{
			Direction: env.Light.Direction,
			Ambient:   env.Light.Ambient,
			Diffuse:   env.Light.Diffuse,
			Specular:  env.Light.Specular,
		},
		MaxDelta:   scn.MaxDelta,
		Strict:     scn.Strict,
		FixedDelta: 1.0 / 60,
	}
}

type codec struct {
	unmarshal func([]byte, any) error
	marshal   func(any) ([]byte, error)
}

var codecs = map[string]codec{
	".yaml": {yaml.Unmarshal, yaml.Marshal},
	".yml":  {yaml.Unmarshal, yaml.Marshal},
	".toml": {toml.Unmarshal, toml.Marshal},
}

func codecFor(path string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, errors.Errorf(prefix+"unsupported file type %q", ext)
	}
	return c, nil
}

// Load reads a configuration from a YAML or TOML file,
// chosen by the file extension.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	c, err := codecFor(path)
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, prefix+"load")
	}
	cfg := Default()
	if err := c.unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, prefix+"parse %s", filepath.Base(path))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to a YAML or TOML file, chosen by the
// file extension.
func (cfg *Config) Save(path string) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	b, err := c.marshal(cfg)
	if err != nil {
		return errors.Wrap(err, prefix+"encode")
	}
	return errors.Wrap(os.WriteFile(path, b, 0666), prefix+"save")
}

// Validate checks that cfg describes a valid simulation.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return errors.New(prefix + "viewport must have positive size")
	case cfg.MaxDelta < 0:
		return errors.New(prefix + "max_delta must not be negative")
	case !(cfg.FixedDelta > 0):
		return errors.New(prefix + "fixed_delta must be positive")
	case cfg.Frames < 0:
		return errors.New(prefix + "frames must not be negative")
	case cfg.Light.Direction == [3]float32{}:
		return errors.New(prefix + "light direction must not be zero")
	}
	var m linear.M4
	err := m.Perspective(cfg.Camera.FOV, cfg.Aspect(), cfg.Camera.Near, cfg.Camera.Far)
	return errors.Wrap(err, prefix+"camera")
}

// Aspect returns the aspect ratio of the viewport.
func (cfg *Config) Aspect() float32 { return float32(cfg.Width) / float32(cfg.Height) }

// Scene returns the scene configuration of cfg.
func (cfg *Config) Scene() scene.Config {
	return scene.Config{
		Strict:   cfg.Strict,
		MaxDelta: cfg.MaxDelta,
	}
}

// Environment returns the scene environment of cfg.
func (cfg *Config) Environment() scene.Environment {
	return scene.Environment{
		Gravity: cfg.Gravity,
		Light: render.Light{
			Direction: cfg.Light.Direction,
			Ambient:   cfg.Light.Ambient,
			Diffuse:   cfg.Light.Diffuse,
			Specular:  cfg.Light.Specular,
		},
	}
}
