// Package config loads render settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid config")

// Integrators supported by the render command
const (
	IntegratorBDPT = "bdpt"
	IntegratorMLT  = "mlt"
)

// Strategy selects how subpaths are sampled and weighted
type Strategy struct {
	Kind          string `yaml:"kind" toml:"kind"`
	MaxEyeDepth   int    `yaml:"max_eye_depth" toml:"max_eye_depth"`
	MaxLightDepth int    `yaml:"max_light_depth" toml:"max_light_depth"`
}

// Mutator is one weighted entry of the Metropolis mutation mix
type Mutator struct {
	Kind   string  `yaml:"kind" toml:"kind"`
	Weight float64 `yaml:"weight" toml:"weight"`
}

// MLT holds the Metropolis settings
type MLT struct {
	Chains            int       `yaml:"chains" toml:"chains"`
	MutationsPerPixel int       `yaml:"mutations_per_pixel" toml:"mutations_per_pixel"`
	BootstrapSamples  int       `yaml:"bootstrap_samples" toml:"bootstrap_samples"`
	MaxVertices       int       `yaml:"max_vertices" toml:"max_vertices"`
	Mutators          []Mutator `yaml:"mutators" toml:"mutators"`
}

// Config describes a single render
type Config struct {
	Scene           string   `yaml:"scene" toml:"scene"`
	Width           int      `yaml:"width" toml:"width"`
	Height          int      `yaml:"height" toml:"height"`
	Integrator      string   `yaml:"integrator" toml:"integrator"`
	SamplesPerPixel int      `yaml:"samples_per_pixel" toml:"samples_per_pixel"`
	Workers         int      `yaml:"workers" toml:"workers"` // 0 = NumCPU
	Seed            int64    `yaml:"seed" toml:"seed"`
	Lights          string   `yaml:"lights" toml:"lights"` // power or uniform light selection
	Output          string   `yaml:"output" toml:"output"`
	Strategy        Strategy `yaml:"strategy" toml:"strategy"`
	MLT             MLT      `yaml:"mlt" toml:"mlt"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Scene:           "cornell",
		Width:           400,
		Height:          400,
		Integrator:      IntegratorBDPT,
		SamplesPerPixel: 16,
		Seed:            1,
		Lights:          "power",
		Output:          "render.png",
		Strategy: Strategy{
			Kind:          "uniform",
			MaxEyeDepth:   8,
			MaxLightDepth: 8,
		},
		MLT: MLT{
			Chains:            8,
			MutationsPerPixel: 64,
			BootstrapSamples:  100000,
			MaxVertices:       16,
			Mutators:          []Mutator{{Kind: "bidirectional", Weight: 1}},
		},
	}
}

// Load reads a config file on top of the defaults. The format is chosen by
// the file extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data in the format named by ext
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	cfg.MLT.Mutators = nil
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	if cfg.MLT.Mutators == nil {
		cfg.MLT.Mutators = Default().MLT.Mutators
	}
	return cfg, nil
}

// Validate checks the settings before rendering
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("%w: no scene", ErrInvalidConfig)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d workers", ErrInvalidConfig, c.Workers)
	}
	if c.Lights != "power" && c.Lights != "uniform" {
		return fmt.Errorf("%w: unknown light selection %q", ErrInvalidConfig, c.Lights)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: no output file", ErrInvalidConfig)
	}
	if c.Strategy.MaxEyeDepth < 1 || c.Strategy.MaxLightDepth < 0 {
		return fmt.Errorf("%w: strategy depths %d/%d", ErrInvalidConfig, c.Strategy.MaxEyeDepth, c.Strategy.MaxLightDepth)
	}

	switch c.Integrator {
	case IntegratorBDPT:
		if c.SamplesPerPixel <= 0 {
			return fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, c.SamplesPerPixel)
		}
	case IntegratorMLT:
		return c.MLT.validate()
	default:
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, c.Integrator)
	}
	return nil
}

func (m MLT) validate() error {
	switch {
	case m.Chains <= 0:
		return fmt.Errorf("%w: %d chains", ErrInvalidConfig, m.Chains)
	case m.MutationsPerPixel <= 0:
		return fmt.Errorf("%w: %d mutations per pixel", ErrInvalidConfig, m.MutationsPerPixel)
	case m.BootstrapSamples <= 0:
		return fmt.Errorf("%w: %d bootstrap samples", ErrInvalidConfig, m.BootstrapSamples)
	case m.MaxVertices < 0:
		return fmt.Errorf("%w: max vertices %d", ErrInvalidConfig, m.MaxVertices)
	case len(m.Mutators) == 0:
		return fmt.Errorf("%w: no mutators", ErrInvalidConfig)
	}
	total := 0.0
	for _, mut := range m.Mutators {
		if mut.Weight < 0 {
			return fmt.Errorf("%w: mutator %q has negative weight", ErrInvalidConfig, mut.Kind)
		}
		total += mut.Weight
	}
	if total <= 0 {
		return fmt.Errorf("%w: mutator weights sum to zero", ErrInvalidConfig)
	}
	return nil
}
