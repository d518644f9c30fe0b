package config

import "sort"

var Presets = map[string]func(*Config){
	"baseline": func(*Config) {},
	// A 10-node stimulus is subcritical from alpha=0.3 on.
	"wide-stimulus": func(c *Config) {
		c.Run.StimulusPoints = 20
		c.Sweep.AlphaMax = 0.4
	},
	"fine": func(c *Config) {
		c.Dx = 0.025
		c.Dt = 1e-4
		c.Run.StimulusPoints = 20
		c.Run.SampleEvery = 500
	},
	"coarse": func(c *Config) {
		c.Dx = 0.1
		c.Dt = 1e-3
		c.Run.StimulusPoints = 5
		c.Run.SampleEvery = 50
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
