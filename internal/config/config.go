package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/sweep"
)

const (
	DefaultAlphaMin = 0.0
	DefaultAlphaMax = 0.5
	DefaultPoints   = 15
	DefaultDataDir  = ".cablesim"
	DefaultLogLevel = "info"
)

type Config struct {
	Diffusion float64 `yaml:"diffusion"`
	K         float64 `yaml:"k"`
	Alpha     float64 `yaml:"alpha"`
	Length    float64 `yaml:"length"`
	Duration  float64 `yaml:"duration"`
	Dx        float64 `yaml:"dx"`
	Dt        float64 `yaml:"dt"`

	Run     RunConfig   `yaml:"run"`
	Sweep   SweepConfig `yaml:"sweep"`
	Log     LogConfig   `yaml:"log"`
	DataDir string      `yaml:"data_dir"`
}

type RunConfig struct {
	SampleEvery       int     `yaml:"sample_every"`
	StimulusPoints    int     `yaml:"stimulus_points"`
	StimulusValue     float64 `yaml:"stimulus_value"`
	FrontLevel        float64 `yaml:"front_level"`
	Margin            float64 `yaml:"margin"`
	MinSamples        int     `yaml:"min_samples"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
	MultiFront        string  `yaml:"multi_front"`
}

type SweepConfig struct {
	AlphaMin float64 `yaml:"alpha_min"`
	AlphaMax float64 `yaml:"alpha_max"`
	Points   int     `yaml:"points"`
	Workers  int     `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	model := dynamo.DefaultConfig()
	run := sim.DefaultOptions()
	return &Config{
		Diffusion: model.D,
		K:         model.K,
		Alpha:     model.Alpha,
		Length:    model.Length,
		Duration:  model.Duration,
		Dx:        model.Dx,
		Dt:        model.Dt,
		Run: RunConfig{
			SampleEvery:       run.SampleEvery,
			StimulusPoints:    run.StimulusPoints,
			StimulusValue:     run.StimulusValue,
			FrontLevel:        run.FrontLevel,
			Margin:            run.Margin,
			MinSamples:        run.MinSamples,
			ParallelThreshold: run.ParallelThreshold,
			MultiFront:        run.MultiFront.String(),
		},
		Sweep: SweepConfig{
			AlphaMin: DefaultAlphaMin,
			AlphaMax: DefaultAlphaMax,
			Points:   DefaultPoints,
			Workers:  1,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		DataDir: DefaultDataDir,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML file over base, which is modified and returned.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Simulation() dynamo.Config {
	return dynamo.Config{
		D:        c.Diffusion,
		K:        c.K,
		Alpha:    c.Alpha,
		Length:   c.Length,
		Duration: c.Duration,
		Dx:       c.Dx,
		Dt:       c.Dt,
	}
}

// RunOptions converts the run block. An unknown multi_front value falls back
// to skip; Validate reports it.
func (c *Config) RunOptions() sim.Options {
	policy, _ := analysis.ParseMultiFrontPolicy(c.Run.MultiFront)
	opts := sim.DefaultOptions()
	opts.SampleEvery = c.Run.SampleEvery
	opts.StimulusPoints = c.Run.StimulusPoints
	opts.StimulusValue = c.Run.StimulusValue
	opts.FrontLevel = c.Run.FrontLevel
	opts.Margin = c.Run.Margin
	opts.MinSamples = c.Run.MinSamples
	opts.ParallelThreshold = c.Run.ParallelThreshold
	opts.MultiFront = policy
	return opts
}

func (c *Config) Alphas() []float64 {
	return sweep.Linspace(c.Sweep.AlphaMin, c.Sweep.AlphaMax, c.Sweep.Points)
}

// Validate checks everything that can be checked without running.
func (c *Config) Validate() error {
	if err := c.Simulation().Validate(); err != nil {
		return err
	}
	if err := c.RunOptions().Validate(); err != nil {
		return err
	}
	if _, err := analysis.ParseMultiFrontPolicy(c.Run.MultiFront); err != nil {
		return fmt.Errorf("run.multi_front: %w", err)
	}
	if c.Sweep.Points < 1 {
		return &dynamo.ConfigError{Field: "sweep.points", Value: float64(c.Sweep.Points), Reason: "must be positive"}
	}
	if c.Sweep.AlphaMax < c.Sweep.AlphaMin {
		return &dynamo.ConfigError{Field: "sweep.alpha_max", Value: c.Sweep.AlphaMax, Reason: "below alpha_min"}
	}
	return nil
}
