package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/storage"
)

// loadSettings resolves the configuration: preset, then config file, then
// any flag given explicitly on the command line.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if flags.Changed("diffusion") {
		cfg.Diffusion = diffusion
	}
	if flags.Changed("k") {
		cfg.K = rateK
	}
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dx") {
		cfg.Dx = dx
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("stimulus") {
		cfg.Run.StimulusPoints = stimulus
	}
	if flags.Changed("sample-every") {
		cfg.Run.SampleEvery = sampleEvery
	}
	if flags.Changed("multi-front") {
		cfg.Run.MultiFront = multiFront
	}
	if flags.Changed("points") {
		cfg.Sweep.Points = points
	}
	if flags.Changed("alpha-min") {
		cfg.Sweep.AlphaMin = alphaMin
	}
	if flags.Changed("alpha-max") {
		cfg.Sweep.AlphaMax = alphaMax
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l, err := logger.Build(cfg.Log.Format, cfg.Log.Level, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(l)

	return cfg, nil
}

// openStore resolves only the data directory, for commands that read
// stored runs and never simulate.
func openStore(cmd *cobra.Command) *storage.Store {
	dir := config.DefaultConfig().DataDir
	if configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			dir = cfg.DataDir
		} else {
			slog.Warn("ignoring unreadable config", "path", configFile, "error", err)
		}
	}
	if cmd.Flags().Changed("data") {
		dir = dataDir
	}
	return storage.New(dir)
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
